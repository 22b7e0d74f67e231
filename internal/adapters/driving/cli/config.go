package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change reconcile defaults",
	Long: `Defaults live in config.toml inside the config directory (--config,
default ~/.vecsync). Command-line flags override them.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Persist one setting",
	Long: `Persist one setting. Keys:

  reconcile.subject_cap     integer, 0 disables the cap
  reconcile.min_confidence  number
  reconcile.drop_exact      comma separated phrases
  reconcile.backup          true or false
  records.format            json or sqlite`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	svc, err := openSettings()
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	r := settings.Reconcile
	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	cmd.Println("[reconcile]")
	cmd.Printf("  subject_cap:    %d\n", r.SubjectCap)
	cmd.Printf("  min_confidence: %g\n", r.MinConfidence)
	if len(r.DropPhrases) == 0 {
		cmd.Println("  drop_exact:     (none)")
	} else {
		cmd.Printf("  drop_exact:     %s\n", strings.Join(r.DropPhrases, ", "))
	}
	cmd.Printf("  backup:         %t\n", r.Backup)
	cmd.Println()
	cmd.Println("[records]")
	cmd.Printf("  format:         %s (%s)\n", settings.RecordFormat, settings.RecordFormat.Description())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	svc, err := openSettings()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := svc.Set(key, value); err != nil {
		return fmt.Errorf("%w (known keys: %s)", err, strings.Join(svc.Keys(), ", "))
	}
	cmd.Printf("%s updated\n", key)
	return nil
}
