package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/logger"
)

var reconcileFlags struct {
	index         string
	records       string
	recordsFormat string
	subjectCap    int
	minConfidence float64
	dropExact     []string
	noBackup      bool
	dryRun        bool
	yes           bool
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the vector index with the record store",
	Long: `Read the record store and the vector index, then compute and apply a plan:

  1. drop records below --min-confidence, matching a --drop-exact phrase,
     without a valid vector_id, or whose vector is missing from the index
  2. keep one record per normalised text (decided, newest, most confident, longest)
  3. keep at most --subject-cap records per subject (0 disables)
  4. remove every vector no kept record points at

Both store files are backed up first unless --no-backup is given.
Flags override values from the config file.`,
	Args: cobra.NoArgs,
	RunE: runReconcile,
}

func init() {
	f := reconcileCmd.Flags()
	f.StringVar(&reconcileFlags.index, "index", "", "vector index file")
	f.StringVar(&reconcileFlags.records, "records", "", "record store file")
	f.StringVar(&reconcileFlags.recordsFormat, "records-format", "", "record store format: json or sqlite")
	f.IntVar(&reconcileFlags.subjectCap, "subject-cap", domain.DefaultSubjectCap, "maximum records kept per subject, 0 disables")
	f.Float64Var(&reconcileFlags.minConfidence, "min-confidence", 0, "drop records with a lower confidence")
	f.StringArrayVar(&reconcileFlags.dropExact, "drop-exact", nil, "drop records whose text equals this phrase (repeatable)")
	f.BoolVar(&reconcileFlags.noBackup, "no-backup", false, "do not back up the store files before writing")
	f.BoolVar(&reconcileFlags.dryRun, "dry-run", false, "report the plan without writing anything")
	f.BoolVarP(&reconcileFlags.yes, "yes", "y", false, "apply without asking for confirmation")
	_ = reconcileCmd.MarkFlagRequired("index")
	_ = reconcileCmd.MarkFlagRequired("records")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	if deps.OpenReconciler == nil {
		return errors.New("reconciler not configured")
	}

	opts, format, err := resolveReconcileSettings(cmd)
	if err != nil {
		return err
	}

	reconciler, closeStores, err := deps.OpenReconciler(StoreRequest{
		IndexPath:    reconcileFlags.index,
		RecordsPath:  reconcileFlags.records,
		RecordFormat: format,
	})
	if err != nil {
		return operatorError(fmt.Errorf("%w: %w", domain.ErrStoreReadFailure, err), nil)
	}
	defer func() {
		if cerr := closeStores(); cerr != nil {
			logger.Warn("Closing stores: %v", cerr)
		}
	}()

	ctx := cmd.Context()
	plan, err := reconciler.Plan(ctx, opts)
	if err != nil {
		return operatorError(err, nil)
	}

	out := cmd.OutOrStdout()
	writeSummary(out, plan, opts)

	if opts.DryRun {
		if _, err := reconciler.Apply(ctx, plan, opts); err != nil {
			return operatorError(err, nil)
		}
		writeDryRun(out, plan)
		return nil
	}

	if !plan.HasChanges() {
		writeNoChanges(out)
		return nil
	}

	if !reconcileFlags.yes && stdinIsTerminal() {
		if !confirm(cmd.InOrStdin(), out, "Apply these changes?") {
			cmd.Println("Aborted; nothing was changed.")
			return nil
		}
	}

	result, err := reconciler.Apply(ctx, plan, opts)
	if err != nil {
		return operatorError(err, result)
	}
	writeApplied(out, result)
	return nil
}

// resolveReconcileSettings layers flags over config values over defaults.
func resolveReconcileSettings(cmd *cobra.Command) (domain.Options, domain.RecordFormat, error) {
	settings := domain.DefaultSettings()
	if deps.OpenSettings != nil {
		svc, err := openSettings()
		if err != nil {
			return domain.Options{}, "", fmt.Errorf("failed to load config: %w", err)
		}
		loaded, err := svc.Get()
		if err != nil {
			return domain.Options{}, "", operatorError(err, nil)
		}
		settings = *loaded
	}

	opts := settings.Reconcile
	flags := cmd.Flags()
	if flags.Changed("subject-cap") {
		opts.SubjectCap = reconcileFlags.subjectCap
	}
	if flags.Changed("min-confidence") {
		opts.MinConfidence = reconcileFlags.minConfidence
	}
	if flags.Changed("drop-exact") {
		opts.DropPhrases = reconcileFlags.dropExact
	}
	if flags.Changed("no-backup") {
		opts.Backup = !reconcileFlags.noBackup
	}
	opts.DryRun = reconcileFlags.dryRun

	format := settings.RecordFormat
	if flags.Changed("records-format") {
		format = domain.RecordFormat(reconcileFlags.recordsFormat)
		if !format.IsValid() {
			return domain.Options{}, "", fmt.Errorf("invalid input: unknown record format %q (want json or sqlite)", reconcileFlags.recordsFormat)
		}
	}

	if err := opts.Validate(); err != nil {
		return domain.Options{}, "", operatorError(err, nil)
	}
	return opts, format, nil
}
