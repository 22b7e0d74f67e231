// Command vecsync reconciles a vector index with its record store.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/vecsync/internal/adapters/driven/backup"
	"github.com/custodia-labs/vecsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vecsync/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/vecsync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/vecsync/internal/adapters/driven/vector/flatfile"
	"github.com/custodia-labs/vecsync/internal/adapters/driving/cli"
	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
	"github.com/custodia-labs/vecsync/internal/core/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	if err := cli.ExecuteContext(ctx, dependencies()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func dependencies() cli.Dependencies {
	return cli.Dependencies{
		OpenSettings:   openSettings,
		OpenReconciler: openReconciler,
		OpenInspector:  openInspector,
	}
}

func openSettings(configDir string) (driving.SettingsService, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, err
	}
	return services.NewSettingsService(store), nil
}

func openRecordStore(path string, format domain.RecordFormat) (driven.RecordStore, error) {
	switch format {
	case domain.RecordFormatJSON:
		return jsonfile.New(path)
	case domain.RecordFormatSQLite:
		return sqlite.Open(path)
	default:
		return nil, fmt.Errorf("%w: record format %q", domain.ErrUnsupportedType, format)
	}
}

func openReconciler(req cli.StoreRequest) (driving.Reconciler, func() error, error) {
	records, err := openRecordStore(req.RecordsPath, req.RecordFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("record store %s: %w", req.RecordsPath, err)
	}

	index, err := flatfile.Open(req.IndexPath)
	if err != nil {
		_ = records.Close()
		return nil, nil, fmt.Errorf("vector index %s: %w", req.IndexPath, err)
	}

	svc := services.NewReconcileService(records, index, backup.New())
	closeAll := func() error {
		return errors.Join(records.Close(), index.Close())
	}
	return svc, closeAll, nil
}

func openInspector(path string) (driving.IndexInspector, func() error, error) {
	index, err := flatfile.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return services.NewReconcileService(nil, index, nil), index.Close, nil
}
