// Command snapshot processes a directory of fleet compliance
// spreadsheets into a snapshot database and prints the resulting report
// document as JSON. It is the batch-mode twin of the web API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleetsnap/internal/config"
	"fleetsnap/internal/insights"
	"fleetsnap/internal/services"
)

func main() {
	inDir := flag.String("in", "", "input directory of .xlsx/.csv report files (required)")
	storageDir := flag.String("storage", "", "snapshot database directory (defaults to the configured storage dir)")
	trendEnd := flag.String("trend-end", "", "reference date YYYY-MM-DD (defaults to today)")
	ticket := flag.String("ticket", "", "reuse an existing ticket instead of creating one")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if *inDir == "" {
		fmt.Fprintln(os.Stderr, "usage: snapshot -in <dir> [-trend-end YYYY-MM-DD]")
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(*inDir, *storageDir, *trendEnd, *ticket, logger); err != nil {
		logger.Error("snapshot failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(inDir, storageDir, trendEndFlag, ticket string, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if storageDir == "" {
		storageDir = cfg.Storage.Dir
	}

	trendEnd := time.Now().UTC()
	if trendEndFlag != "" {
		trendEnd, err = time.Parse("2006-01-02", trendEndFlag)
		if err != nil {
			return fmt.Errorf("invalid -trend-end %q: %w", trendEndFlag, err)
		}
	}

	files, err := collectFiles(inDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no spreadsheet files found in %s", inDir)
	}

	if ticket == "" {
		ticket = uuid.New().String()
	}

	ctx := context.Background()

	snapshots, err := services.NewSnapshotService(storageDir, logger)
	if err != nil {
		return err
	}
	batch, err := snapshots.ProcessBatch(ctx, ticket, files)
	if err != nil {
		return err
	}
	for _, f := range batch.Files {
		logger.Info("processed",
			slog.String("file", f.Filename),
			slog.String("report_type", string(f.ReportType)),
			slog.Int("rows", f.Rows),
		)
	}
	for _, f := range batch.Failures {
		logger.Warn("skipped", slog.String("file", f.Filename), slog.String("error", f.Error))
	}

	insightSvc := insights.NewService(insights.NewClient(cfg.Insights), insights.NewCache(), logger)
	reports := services.NewReportService(storageDir, insightSvc, logger)

	doc, err := reports.BuildReport(ctx, ticket, trendEnd, nil)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// collectFiles lists the supported spreadsheet files of a directory in
// name order.
func collectFiles(dir string) ([]services.UploadedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []services.UploadedFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv", ".xlsx", ".xlsm", ".xls":
			files = append(files, services.UploadedFile{
				Name: entry.Name(),
				Path: filepath.Join(dir, entry.Name()),
			})
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
