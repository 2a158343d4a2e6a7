package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/statewalk/pkg/paths"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths [file]",
	Short: "Generate event paths through the machine",
	Long:  `Explores the reachable behavior of the machine and prints one event path per reachable configuration, shortest or all simple paths.`,
	Run: func(cmd *cobra.Command, args []string) {
		m, err := loadMachine(cmd, args)
		if err != nil {
			fmt.Printf("Error loading machine: %v\n", err)
			os.Exit(1)
		}

		var generator paths.Generator
		switch strategy, _ := cmd.Flags().GetString("strategy"); strategy {
		case "shortest":
			generator = paths.Shortest()
		case "simple":
			generator = paths.Simple()
		default:
			fmt.Printf("Unknown strategy %q (want shortest or simple)\n", strategy)
			os.Exit(1)
		}

		all, err := generator.Paths(m)
		if err != nil {
			fmt.Printf("Error generating paths: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%d paths (%s) for machine %q:\n", len(all), generator.Name(), m.ID())
		for _, p := range all {
			fmt.Printf("  %s\n", p)
		}
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
	pathsCmd.Flags().String("strategy", "shortest", "Path strategy: shortest or simple")
}
