package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/statewalk"
	"github.com/aretw0/statewalk/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "statewalk",
	Short: "Statewalk explores hierarchical state machines",
	Long: `Statewalk compiles hierarchical state machine definitions, walks their
reachable behavior, and generates event paths for model-based testing.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("file", "f", "machine.yaml", "Machine definition file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// loadMachine builds the machine named by the persistent --file flag, letting
// a positional argument override it the way the rest of the commands expect.
func loadMachine(cmd *cobra.Command, args []string, opts ...statewalk.Option) (*statewalk.Machine, error) {
	file, _ := cmd.Flags().GetString("file")
	if !cmd.Flags().Changed("file") && len(args) > 0 {
		file = args[0]
	}

	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	opts = append([]statewalk.Option{statewalk.WithLogger(logging.New(level))}, opts...)

	return statewalk.LoadFile(file, opts...)
}
