package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/statewalk"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of statewalk",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("statewalk version %s\n", strings.TrimSpace(statewalk.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
