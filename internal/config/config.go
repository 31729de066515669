package config

import (
	"errors"
	"fmt"
	"os"

	"railticket-exporter/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Defaults applied when the YAML file leaves a key empty
const (
	DefaultImap       = "imap.qq.com:993"
	DefaultMailBox    = "INBOX"
	DefaultBatchSize  = 100
	DefaultSender     = "12306@rails.com.cn"
	DefaultSourceTag  = "12306"
	DefaultReportPath = "~/Desktop/12306车票统计.xlsx"
)

// Environment variables that take precedence over the file, so credentials can stay out of it
const (
	EnvLogin         = "RAILTICKET_IMAP_LOGIN"
	EnvPassword      = "RAILTICKET_IMAP_PASSWORD"
	EnvPassengerName = "RAILTICKET_PASSENGER_NAME"
)

var ErrMissingPassengerName = errors.New("passengerName is required")

// Load reads the configuration from the specified YAML file and returns a Config struct.
// Values from the environment (or a .env file next to the binary) override the file.
func Load(filepath string) (*models.Config, error) {
	configFile, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err := yaml.Unmarshal(configFile, &config); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", filepath, err)
	}

	// .env is optional
	_ = godotenv.Load()
	applyEnv(&config)
	applyDefaults(&config)

	if config.PassengerName == "" {
		return nil, ErrMissingPassengerName
	}

	return &config, nil
}

func applyEnv(cfg *models.Config) {
	if v := os.Getenv(EnvLogin); v != "" {
		cfg.Email.Login = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv(EnvPassengerName); v != "" {
		cfg.PassengerName = v
	}
}

func applyDefaults(cfg *models.Config) {
	if cfg.Email.Imap == "" {
		cfg.Email.Imap = DefaultImap
	}
	if cfg.Email.MailBox == "" {
		cfg.Email.MailBox = DefaultMailBox
	}
	if cfg.Email.BatchSize <= 0 {
		cfg.Email.BatchSize = DefaultBatchSize
	}
	if cfg.Sender == "" {
		cfg.Sender = DefaultSender
	}
	if cfg.SourceTag == "" {
		cfg.SourceTag = DefaultSourceTag
	}
	if cfg.Report.Path == "" {
		cfg.Report.Path = DefaultReportPath
	}
}
