package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flightdeck/rpas-checklist/internal/application/services"
	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
	"github.com/flightdeck/rpas-checklist/internal/infrastructure/config"
	"github.com/flightdeck/rpas-checklist/internal/infrastructure/logger"
)

// NewStateCommand creates the stored-checklist inspection command
func NewStateCommand() *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or clear the stored checklist",
		Long:  "Read, export or delete the checklist kept in the configured storage slot",
	}

	stateCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print a summary of the stored checklist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withChecklist(cmd.Context(), func(cfg *config.Config, checklist *services.ChecklistService) error {
				state := checklist.Snapshot()
				catalog := checklist.Catalog()
				out := cmd.OutOrStdout()

				fmt.Fprintf(out, "Slot:      %s\n", cfg.Storage.Slot)
				fmt.Fprintf(out, "Pilot:     %s\n", state.PilotName)
				fmt.Fprintf(out, "Date:      %s\n", state.Date)
				fmt.Fprintf(out, "Completed: %d/%d\n", catalog.CompletedCount(state.Completed), catalog.TotalItems())
				for _, cat := range catalog.Categories {
					done := 0
					for i := range cat.Items {
						if state.Completed.Checked(entities.NewItemKey(cat.Name, i)) {
							done++
						}
					}
					fmt.Fprintf(out, "  %-22s %d/%d\n", cat.Title, done, len(cat.Items))
				}
				return nil
			})
		},
	})

	stateCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Delete the stored checklist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withChecklist(cmd.Context(), func(cfg *config.Config, checklist *services.ChecklistService) error {
				checklist.Reset(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "Checklist slot %q cleared\n", cfg.Storage.Slot)
				return nil
			})
		},
	})

	var format string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored checklist as a flight report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withChecklist(cmd.Context(), func(cfg *config.Config, checklist *services.ChecklistService) error {
				reports := services.NewReportService(checklist.Catalog())
				body, err := reports.Export(checklist.Snapshot(), format)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(body)
				return err
			})
		},
	}
	exportCmd.Flags().StringVar(&format, "format", services.FormatMarkdown, "Output format: markdown, json or yaml")
	stateCmd.AddCommand(exportCmd)

	return stateCmd
}

// withChecklist opens the configured store and hands fn a hydrated
// checklist service. Logging is discarded so command output stays clean.
func withChecklist(ctx context.Context, fn func(cfg *config.Config, checklist *services.ChecklistService) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	log := logger.NewNop()
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	notifier := services.NewNotificationService(cfg.Notifications.SavedDuration, cfg.Notifications.InstalledDuration)
	checklist := services.NewChecklistService(
		st.repo,
		cfg.Storage.Slot,
		entities.DefaultCatalog(),
		notifier,
		nil,
		log,
	)
	checklist.Hydrate(ctx)

	return fn(cfg, checklist)
}
