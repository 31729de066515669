package main

import (
	"errors"
	"flag"
	"fmt"

	"railticket-exporter/internal/config"
	"railticket-exporter/internal/emailprocessor"
	"railticket-exporter/internal/extract"
	imapclient "railticket-exporter/internal/imap"
	"railticket-exporter/internal/logging"
	"railticket-exporter/internal/models"
	"railticket-exporter/internal/railway"
	"railticket-exporter/internal/report"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Log.Fatalf("Error reading configuration file: %v", err)
	}

	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		logging.Log.Warnf("Invalid log level %q, keeping %s", cfg.LogLevel, logging.Log.GetLevel())
	}

	logging.Log.Infof("Exporting ticket history from %s for %s", cfg.Sender, cfg.Email.Login)

	if err := run(cfg); err != nil {
		if errors.Is(err, report.ErrNothingToExport) {
			logging.Log.Info("No ticket records found for the configured passenger, nothing to export")
			return
		}
		logging.Log.Fatalf("Export failed: %v", err)
	}
}

// run executes one export: fetch every message from the sender, extract, aggregate, write
func run(cfg *models.Config) error {
	client := imapclient.NewStandardClient()

	if err := client.Connect(cfg.Email.Imap); err != nil {
		return err
	}
	defer func(client *imapclient.StandardClient) {
		_ = client.Close()
	}(client)

	if err := client.Login(cfg.Email.Login, cfg.Email.Password); err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	if err := client.SelectMailbox(cfg.Email.MailBox); err != nil {
		return fmt.Errorf("folder selection error: %w", err)
	}

	uids, err := client.SearchFrom(cfg.Sender)
	if err != nil {
		return err
	}
	logging.Log.Infof("Found %d candidate messages", len(uids))

	if len(uids) == 0 {
		return report.ErrNothingToExport
	}

	service := railway.NewService(extract.New(cfg.PassengerName), cfg)
	processor := emailprocessor.NewProcessor(client, service, cfg.Email.BatchSize)

	entries, _ := processor.Run(uids)

	table, err := report.Aggregate(entries, report.Options{SourceTag: cfg.SourceTag})
	if err != nil {
		return err
	}

	writer, err := report.NewWriter(cfg.Report)
	if err != nil {
		return err
	}
	if err := writer.Write(table); err != nil {
		return err
	}

	logging.Log.Infof("Wrote %d tickets to %s", len(table.Rows), cfg.Report.Path)
	return nil
}
