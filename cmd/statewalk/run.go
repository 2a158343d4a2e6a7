package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/statewalk/pkg/adapters/file"
	"github.com/aretw0/statewalk/pkg/domain"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Drive the machine interactively",
	Long:  `Starts an interactive loop: type an event name to dispatch it against the current state. With --session the state survives restarts.`,
	Run: func(cmd *cobra.Command, args []string) {
		m, err := loadMachine(cmd, args)
		if err != nil {
			fmt.Printf("Error loading machine: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		sessionID, _ := cmd.Flags().GetString("session")
		storeDir, _ := cmd.Flags().GetString("store")
		store := file.NewStore(storeDir)

		state := m.InitialState()
		if sessionID != "" {
			saved, err := store.Load(ctx, sessionID)
			if err == nil {
				state = saved
				fmt.Printf("Resuming session %q\n", sessionID)
			} else if !errors.Is(err, domain.ErrSessionNotFound) {
				fmt.Printf("Error loading session: %v\n", err)
				os.Exit(1)
			}
		}

		fmt.Printf("--- %s ---\n", m.ID())
		fmt.Printf("Events: %s (exit to quit)\n", strings.Join(m.Events(), ", "))

		reader := bufio.NewReader(os.Stdin)
		for {
			fmt.Printf("[%s] > ", state.Configuration.Key())
			line, err := reader.ReadString('\n')
			if err != nil {
				break
			}
			input := strings.TrimSpace(line)
			if input == "" {
				continue
			}
			if input == "exit" || input == "quit" {
				fmt.Println("Bye!")
				break
			}

			next, err := m.Transition(state, input)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			if !next.Changed {
				fmt.Println("(no transition)")
			}
			for _, action := range next.Actions {
				fmt.Printf("  action: %s\n", action)
			}
			state = next

			if sessionID != "" {
				if err := store.Save(ctx, sessionID, state); err != nil {
					fmt.Printf("Error saving session: %v\n", err)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("session", "", "Session ID for persistent state")
	runCmd.Flags().String("store", "", "Directory for session files (defaults to .statewalk/sessions)")
}
