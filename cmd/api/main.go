package main

import (
	"errors"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/flightdeck/rpas-checklist/cmd/api/commands"
)

// @title RPAS Checklist API
// @version 1.0
// @description Pre-flight, emergency and site-survey checklist for RPAS pilots

// @host localhost:8080
// @BasePath /api/v1

func main() {
	rootCmd := &cobra.Command{
		Use:           "rpas-checklist",
		Short:         "RPAS flight checklist server",
		Long:          `RPAS Checklist serves an installable pre-flight, emergency and site-survey checklist and keeps the pilot's progress in a single storage slot.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewPreflightCommand())
	rootCmd.AddCommand(commands.NewStateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		// Preflight already printed its report.
		if !errors.Is(err, commands.ErrPreflightFailed) {
			log.Printf("Command execution failed: %v", err)
		}
		os.Exit(1)
	}
}
