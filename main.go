package main

import (
	"bytes"
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"Flexfit/internal/config"
	"Flexfit/internal/pipeline"
	"Flexfit/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	res, err := pipeline.Run(cfg, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	if err := report.WriteSummary(os.Stdout, res.Fit); err != nil {
		log.Fatal(err)
	}

	png, err := pipeline.Chart(cfg, res)
	if err != nil {
		slog.Error("chart not rendered", slog.String("error", err.Error()))
	}
	res.Document.Chart = png

	if path := cfg.Runtime.ReportPDF; path != "" {
		var buf bytes.Buffer
		if err := report.WritePDF(&buf, res.Document); err != nil {
			log.Fatal("PDF report: ", err)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			log.Fatal("PDF report: ", err)
		}
		slog.Info("PDF report written", slog.String("path", path))
	}
	if path := cfg.Runtime.ReportXLSX; path != "" {
		var buf bytes.Buffer
		if err := report.WriteWorkbook(&buf, res.Fit); err != nil {
			log.Fatal("workbook: ", err)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			log.Fatal("workbook: ", err)
		}
		slog.Info("error series written", slog.String("path", path))
	}

	if !cfg.Runtime.Display {
		return
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := report.Serve(ctx, cfg.Runtime.ViewerAddr, res.Document, os.Stderr); err != nil {
		log.Fatal("viewer: ", err)
	}
}
