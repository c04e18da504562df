package main

import (
	"fmt"
	"os"
	"time"

	"estate-mail-scraper/config"
	"estate-mail-scraper/extract"
	"estate-mail-scraper/mailbox"
	"estate-mail-scraper/render"
	"estate-mail-scraper/services"
	"estate-mail-scraper/storage"
	"estate-mail-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

// run owns the whole pass. Failures come back as errors so the deferred
// Logout and store Close always happen; main holds the only exit.
func run(logger *utils.Logger) error {
	cfg := config.Load()

	logger.Info("=== Estate mail scraper starting ===")
	logger.Info("Config — mode: %s | store: %s | area: %.0f–%.0f m² | min €/m²: %.0f | weights: %.1f/%.1f",
		cfg.Mode, cfg.StorageBackend, cfg.MinArea, cfg.MaxArea,
		cfg.MinPricePerArea, cfg.PriceWeight, cfg.RecencyWeight)

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open listing store: %w", err)
	}
	defer store.Close()

	var rawWriter storage.CandidateWriter
	if csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath); err != nil {
		logger.Warn("Raw candidate dump disabled: %v", err)
	} else {
		rawWriter = csvWriter
		defer csvWriter.Close()
	}

	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}

	mbox, err := mailbox.Connect(cfg.IMAPServer, cfg.EmailAccount, cfg.EmailPassword, retry, logger)
	if err != nil {
		return fmt.Errorf("connect mailbox: %w", err)
	}
	defer mbox.Close()

	extractors := []extract.Extractor{
		extract.NewImmobiliare(logger),
		extract.NewCasait(logger),
		extract.NewIdealista(logger),
	}

	pipeline := services.NewPipeline(
		cfg, logger, extractors,
		services.NewValidator(cfg, logger),
		services.NewScorer(cfg, logger),
		store, rawWriter,
	)

	if err := pipeline.Run(mbox); err != nil {
		return err
	}

	final, err := store.Load()
	if err != nil {
		return fmt.Errorf("reload persisted listings: %w", err)
	}

	page := render.NewPage(cfg.HTMLOutputPath)
	if err := page.Write(final, time.Now()); err != nil {
		logger.Error("HTML report failed: %v", err)
	} else {
		logger.Info("HTML report written to %s", cfg.HTMLOutputPath)
	}

	reportSvc := services.NewReportService(logger)
	reportSvc.Print(reportSvc.Generate(final))
	return nil
}

func openStore(cfg *config.Config) (storage.ListingStore, error) {
	if cfg.StorageBackend == config.BackendPostgres {
		return storage.NewPostgresStore(cfg.DSN())
	}
	return storage.NewJSONStore(cfg.ListingsPath)
}
