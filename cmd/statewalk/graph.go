package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	presentation "github.com/aretw0/statewalk/internal/presentation/graph"
	"github.com/aretw0/statewalk/pkg/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Export the state graph",
	Long:  `Compiles the machine and writes its directed graph as Mermaid, DOT, or JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		m, err := loadMachine(cmd, args)
		if err != nil {
			fmt.Printf("Error loading machine: %v\n", err)
			os.Exit(1)
		}

		var opts []graph.Option
		if blocked, _ := cmd.Flags().GetBool("blocked"); blocked {
			opts = append(opts, graph.WithBlockedEdges())
		}
		g, err := graph.ToDirectedGraph(m, opts...)
		if err != nil {
			fmt.Printf("Error building graph: %v\n", err)
			os.Exit(1)
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "mermaid":
			fmt.Print(presentation.Mermaid(g, nil))
		case "dot":
			fmt.Print(presentation.Dot(g))
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(g); err != nil {
				fmt.Printf("Error encoding graph: %v\n", err)
				os.Exit(1)
			}
		default:
			fmt.Printf("Unknown format %q (want mermaid, dot, or json)\n", format)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("format", "mermaid", "Output format: mermaid, dot, or json")
	graphCmd.Flags().Bool("blocked", false, "Include forbidden-event self-loops")
}
