package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"readinglog/internal/config"
	"readinglog/internal/logging"
	"readinglog/internal/store"
)

func main() {
	var (
		file       = flag.String("file", "", "CSV export of the reading log (header row required)")
		configFile = flag.String("config", "", "Path to a YAML config file")
		normalize  = flag.Bool("normalize", false, "Rewrite rows in canonical form (labels, integer rating, YYYY-MM-DD)")
		dryRun     = flag.Bool("dry-run", false, "Parse the file and report without writing")
	)
	flag.Parse()

	if err := run(*file, *configFile, *normalize, *dryRun); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(file, configFile string, normalize, dryRun bool) error {
	if file == "" {
		return fmt.Errorf("-file is required")
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := readRows(f, normalize)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	logger.Info("parsed export", "file", file, "rows", len(rows))
	if dryRun {
		return nil
	}

	ctx := context.Background()
	s, closeStore, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	return importRows(ctx, s, rows, logger)
}

func importRows(ctx context.Context, s rowAppender, rows []rowWithLine, logger *log.Logger) error {
	for _, r := range rows {
		id, err := s.Append(ctx, r.row)
		if err != nil {
			return fmt.Errorf("line %d: %w", r.line, err)
		}
		logger.Debug("imported", "line", r.line, "id", id, "title", r.row.Title)
	}
	logger.Info("import complete", "rows", len(rows))
	return nil
}
