package cli

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/custodia-labs/vecsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
	"github.com/custodia-labs/vecsync/internal/core/services"
)

// testEnv holds the in-memory stores behind the commands under test.
type testEnv struct {
	records  *memory.RecordStore
	vectors  *memory.VectorIndex
	config   *memory.ConfigStore
	backups  driven.BackupStore
	requests []StoreRequest
}

type stubBackups struct{ err error }

func (b stubBackups) Backup(path string) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	return path + ".bak-test", nil
}

func record(pos int, id uint64, text, subject string, ts int64) domain.Record {
	q := func(s string) json.RawMessage {
		b, _ := json.Marshal(s)
		return b
	}
	return domain.NewRecord(pos, []domain.Field{
		{Key: domain.FieldText, Value: q(text)},
		{Key: domain.FieldSubject, Value: q(subject)},
		{Key: domain.FieldTimestamp, Value: json.RawMessage(strconv.FormatInt(ts, 10))},
		{Key: domain.FieldVectorID, Value: json.RawMessage(strconv.FormatUint(id, 10))},
	})
}

// setupTestDeps wires memory stores into the commands and resets flag state.
func setupTestDeps(t *testing.T, vectors *memory.VectorIndex, records ...domain.Record) *testEnv {
	t.Helper()

	env := &testEnv{
		records: memory.NewRecordStore(records...),
		vectors: vectors,
		config:  memory.NewConfigStore(nil),
		backups: stubBackups{},
	}

	resetFlags()
	original := deps
	originalTTY := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }

	deps = Dependencies{
		OpenSettings: func(string) (driving.SettingsService, error) {
			return services.NewSettingsService(env.config), nil
		},
		OpenReconciler: func(req StoreRequest) (driving.Reconciler, func() error, error) {
			env.requests = append(env.requests, req)
			return services.NewReconcileService(env.records, env.vectors, env.backups), func() error { return nil }, nil
		},
		OpenInspector: func(string) (driving.IndexInspector, func() error, error) {
			return services.NewReconcileService(nil, env.vectors, nil), func() error { return nil }, nil
		},
	}

	t.Cleanup(func() {
		deps = original
		stdinIsTerminal = originalTTY
		resetFlags()
	})
	return env
}

// resetFlags clears values and Changed marks left by earlier executions.
func resetFlags() {
	reconcileFlags.index = ""
	reconcileFlags.records = ""
	reconcileFlags.recordsFormat = ""
	reconcileFlags.subjectCap = domain.DefaultSubjectCap
	reconcileFlags.minConfidence = 0
	reconcileFlags.dropExact = nil
	reconcileFlags.noBackup = false
	reconcileFlags.dryRun = false
	reconcileFlags.yes = false
	inspectIndex = ""
	verbose = false
	configDir = ""

	for _, fs := range []*pflag.FlagSet{reconcileCmd.Flags(), inspectCmd.Flags(), rootCmd.PersistentFlags()} {
		fs.VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
}

// run executes the root command with args and returns its output.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
