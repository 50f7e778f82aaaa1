package commands

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flightdeck/rpas-checklist/internal/infrastructure/config"
	"github.com/flightdeck/rpas-checklist/internal/preflight"
)

// ErrPreflightFailed is returned when a required asset is missing. The
// report has already been printed.
var ErrPreflightFailed = errors.New("preflight checks failed")

// NewPreflightCommand creates the asset check command
func NewPreflightCommand() *cobra.Command {
	var (
		dir   string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check installable-app assets before a deploy",
		Long:  "Verify that manifest.json and the 192x192 and 512x512 icons exist in the asset directory. Exits nonzero when any is missing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load configuration: %w", err)
				}
				dir = cfg.Assets.Dir
			}

			out := cmd.OutOrStdout()

			if watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				return preflight.Watch(ctx, dir, preflight.DefaultDebounce, func(report *preflight.Report) {
					_ = report.Write(out)
				})
			}

			report := preflight.Check(dir)
			if err := report.Write(out); err != nil {
				return err
			}
			if !report.Passed() {
				return ErrPreflightFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Asset directory (defaults to assets.dir from configuration)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-run the checks whenever the directory changes")

	return cmd
}
