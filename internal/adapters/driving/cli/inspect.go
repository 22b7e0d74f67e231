package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecsync/internal/logger"
)

var inspectIndex string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Describe a vector index file",
	Long: `Print the layout, codec, dimension and vector count of an index, and
whether it can list its ids. Indexes that cannot are reconciled in degraded
mode: orphan vectors are not detected.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectIndex, "index", "", "vector index file")
	_ = inspectCmd.MarkFlagRequired("index")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, _ []string) error {
	if deps.OpenInspector == nil {
		return errors.New("inspector not configured")
	}

	inspector, closeIndex, err := deps.OpenInspector(inspectIndex)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer func() {
		if cerr := closeIndex(); cerr != nil {
			logger.Warn("Closing index: %v", cerr)
		}
	}()

	info, err := inspector.Inspect(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to inspect index: %w", err)
	}
	writeIndexInfo(cmd.OutOrStdout(), info)
	return nil
}
