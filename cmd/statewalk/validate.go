package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/statewalk/internal/loader"
	"github.com/aretw0/statewalk/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a machine definition for consistency",
	Long:  `Compiles the definition eagerly and reports dangling transition targets and unreachable states in one pass.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Machine is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	if !cmd.Flags().Changed("file") && len(args) > 0 {
		file = args[0]
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read machine definition: %w", err)
	}
	def, err := loader.Parse(data)
	if err != nil {
		return err
	}
	return validator.Validate(def)
}
