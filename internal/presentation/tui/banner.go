package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII banner with a gradient color scheme.
func PrintBanner() {
	p := termenv.ColorProfile()
	lines := []string{
		"      _        _                    _ _    ",
		"  ___| |_ __ _| |_ _____      _____| | | __",
		" / __| __/ _` | __/ _ \\ \\ /\\ / / _ \\ | |/ /",
		" \\__ \\ || (_| | ||  __/\\ V  V /  __/ |   < ",
		" |___/\\__\\__,_|\\__\\___| \\_/\\_/ \\___|_|_|\\_\\",
	}
	colors := []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6"}

	fmt.Println()
	for i, line := range lines {
		fmt.Println(termenv.String(line).Foreground(p.Color(colors[i])))
	}
	fmt.Println()
}
