package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/statewalk/internal/presentation/tui"
	"github.com/aretw0/statewalk/pkg/graph"
)

// describeCmd represents the describe command
var describeCmd = &cobra.Command{
	Use:   "describe [file]",
	Short: "Render a readable summary of the machine",
	Long:  `Compiles the machine and renders its events, state tree, and transitions as formatted markdown in the terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		m, err := loadMachine(cmd, args)
		if err != nil {
			fmt.Printf("Error loading machine: %v\n", err)
			os.Exit(1)
		}

		g, err := graph.ToDirectedGraph(m, graph.WithBlockedEdges())
		if err != nil {
			fmt.Printf("Error building graph: %v\n", err)
			os.Exit(1)
		}

		tui.PrintBanner()

		render := tui.NewRenderer()
		out, err := render(tui.MachineSummary(g, m.Events()))
		if err != nil {
			// Fall back to the raw markdown when the terminal renderer fails.
			out = tui.MachineSummary(g, m.Events())
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
