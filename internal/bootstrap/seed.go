package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/init-pkg/mess-menu/domain/app"
	"go.uber.org/fx"
)

// Seed imports every .xlsx workbook in dir through the upload service,
// without starting the HTTP server.
func Seed(ctx context.Context, dir string) error {
	var (
		service app.MenuUploadService
		log     *slog.Logger
	)

	fxApp := fx.New(
		coreOptions(),
		clientsOptions(),
		appOptions(),
		fx.Populate(&service, &log),
	)
	if err := fxApp.Err(); err != nil {
		return err
	}

	if err := fxApp.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := fxApp.Stop(context.Background()); err != nil {
			log.Error("failed to stop seed app", "error", err)
		}
	}()

	s := seeder{service, log}
	return s.runAll(ctx, dir)
}

type seeder struct {
	service app.MenuUploadService
	log     *slog.Logger
}

func (this *seeder) runAll(ctx context.Context, dir string) error {
	files, err := workbooks(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		this.log.Warn("No workbooks to seed", "dir", dir)
		return nil
	}

	total := 0
	for _, path := range files {
		count, err := this.run(ctx, path)
		if err != nil {
			return err
		}
		total += count
	}

	this.log.Info("Seed finished", "files", len(files), "records", total)
	return nil
}

func (this *seeder) run(ctx context.Context, path string) (int, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	res, err := this.service.Upload(ctx, file)
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", filepath.Base(path), err)
	}

	this.log.Info("Workbook seeded",
		"file", filepath.Base(path),
		"records", res.Count,
		"skipped", res.Skipped,
		"duplicate_resolved", res.DuplicateResolved)
	return res.Count, nil
}

// workbooks lists the .xlsx files directly inside dir in name order.
func workbooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read seed dir: %w", err)
	}

	var res []string
	for _, entry := range entries {
		name := entry.Name()
		// Lock files left behind by spreadsheet editors.
		if entry.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ".xlsx") {
			res = append(res, filepath.Join(dir, name))
		}
	}

	slices.Sort(res)
	return res, nil
}
