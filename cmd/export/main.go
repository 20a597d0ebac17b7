// Package main is a one-shot report exporter. It runs the same export
// pipeline as the API and writes the files to a directory.
//
//	export --kind progress --format pdf --out ./reports
//	export --all
//	export --kind grades --stdout > grades.csv
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/learnhub/learnhub-dashboard/config"
	"github.com/learnhub/learnhub-dashboard/internal/application/command"
	"github.com/learnhub/learnhub-dashboard/internal/bootstrap"
	"github.com/learnhub/learnhub-dashboard/internal/domain/report"
	"github.com/learnhub/learnhub-dashboard/internal/infrastructure/delivery"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "export: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "export",
		Usage: "render a progress or grade report to CSV or PDF",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Value:   string(report.KindProgress),
				Usage:   "report kind: progress or grades",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   string(report.FormatCSV),
				Usage:   "file format: csv or pdf",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output directory (default EXPORT_OUTPUT_DIR)",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "processing delay before delivery",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "export every kind in every enabled format",
			},
			&cli.BoolFlag{
				Name:  "stdout",
				Usage: "write the document to standard output instead of a file",
			},
		},
		Action: runExport,
	}
}

func runExport(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if c.IsSet("out") {
		cfg.Export.OutputDir = c.String("out")
	}
	if c.IsSet("delay") {
		cfg.Export.ProcessingDelay = c.Duration("delay")
	}

	toStdout := c.Bool("stdout")
	if toStdout && c.Bool("all") {
		return cli.Exit("--stdout cannot be combined with --all", 2)
	}

	var opts bootstrap.Options
	var mem *delivery.MemorySink
	if toStdout {
		mem = delivery.NewMemorySink()
		opts.Sink = mem
	}

	log := bootstrap.NewLogger(cfg)
	app, err := bootstrap.Build(c.Context, cfg, log, opts)
	if err != nil {
		return err
	}
	defer app.Close()

	plan := []command.RunExportCommand{{Kind: c.String("kind"), Format: c.String("format")}}
	if c.Bool("all") {
		plan = bootstrap.ExportPlan(cfg.Features)
	}

	for _, cmd := range plan {
		if !cfg.Features.ExportFormatEnabled(cmd.Format) {
			return cli.Exit(fmt.Sprintf("%s export is disabled", cmd.Format), 2)
		}
		res, err := app.Exports.Run(c.Context, cmd)
		if err != nil {
			return err
		}
		if mem != nil {
			doc, err := mem.Get(res.FileName)
			if err != nil {
				return err
			}
			if _, err := c.App.Writer.Write(doc.Content); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s\t%d bytes\tblake2b:%s\n",
			res.Receipt.Location, res.Receipt.Size, res.Receipt.Checksum)
	}
	return nil
}
