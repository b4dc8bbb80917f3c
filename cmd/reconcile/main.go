package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reconlab/wba-recon/internal/application/reconcile"
	"github.com/reconlab/wba-recon/internal/cli"
	"github.com/reconlab/wba-recon/internal/export"
	"github.com/reconlab/wba-recon/internal/infrastructure/config"
	"github.com/reconlab/wba-recon/internal/infrastructure/logging"
	"github.com/reconlab/wba-recon/internal/ingest"
)

func main() {
	flags := cli.ParseReconcileFlags()
	if flags.Journal == "" || flags.WBA == "" {
		fmt.Fprintln(os.Stderr, "usage: reconcile -journal diario.xlsx -wba feed.xlsx [-out report.xlsx]")
		os.Exit(2)
	}

	loggingCfg := config.Default().Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithScope(loggingCfg, "reconcile")

	cli.PrintHeader(flags.Journal, flags.WBA)
	cfg := flags.ToMatcherConfig()
	cli.PrintConfiguration(cfg)

	journalFile, err := os.Open(flags.Journal)
	if err != nil {
		fatal(err)
	}
	defer journalFile.Close()

	wbaFile, err := os.Open(flags.WBA)
	if err != nil {
		fatal(err)
	}
	defer wbaFile.Close()

	journal, err := ingest.ReadJournal(journalFile, logger)
	if err != nil {
		fatal(fmt.Errorf("reading journal: %w", err))
	}
	wba, err := ingest.ReadWBA(wbaFile, logger)
	if err != nil {
		fatal(fmt.Errorf("reading wba feed: %w", err))
	}

	res, err := reconcile.NewService(logger).Run(context.Background(), journal, wba, cfg)
	if err != nil {
		fatal(err)
	}

	out, err := os.Create(flags.Out)
	if err != nil {
		fatal(err)
	}
	if err := export.Write(out, res); err != nil {
		out.Close()
		fatal(fmt.Errorf("writing report: %w", err))
	}
	if err := out.Close(); err != nil {
		fatal(err)
	}

	cli.PrintSummary(res)
	fmt.Printf("Report written to %s\n", flags.Out)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
