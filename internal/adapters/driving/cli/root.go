// Package cli provides the vecsync command-line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
	"github.com/custodia-labs/vecsync/internal/logger"
)

var version = "dev"

var (
	verbose   bool
	configDir string
)

// StoreRequest names the stores one reconcile run operates on.
type StoreRequest struct {
	IndexPath    string
	RecordsPath  string
	RecordFormat domain.RecordFormat
}

// Dependencies open the services behind each command.
// Each opener returns a close function releasing what it opened.
type Dependencies struct {
	OpenSettings   func(configDir string) (driving.SettingsService, error)
	OpenReconciler func(req StoreRequest) (driving.Reconciler, func() error, error)
	OpenInspector  func(indexPath string) (driving.IndexInspector, func() error, error)
}

var deps Dependencies

var rootCmd = &cobra.Command{
	Use:   "vecsync",
	Short: "Reconcile a vector index with its record store",
	Long: `vecsync keeps a vector index and the record store describing its vectors
in step. It drops low-value and duplicate records, caps records per subject
and removes vectors that no kept record points at.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline details to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.vecsync)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with the given dependencies.
func Execute(d Dependencies) error {
	return ExecuteContext(context.Background(), d)
}

// ExecuteContext runs the root command; ctx cancels store reads and writes.
func ExecuteContext(ctx context.Context, d Dependencies) error {
	deps = d
	return rootCmd.ExecuteContext(ctx)
}

func openSettings() (driving.SettingsService, error) {
	if deps.OpenSettings == nil {
		return nil, errors.New("settings service not configured")
	}
	return deps.OpenSettings(configDir)
}
