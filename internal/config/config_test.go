package config

import (
	"errors"
	"os"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Remove(tmpFile.Name())
	})

	if _, err := tmpFile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	_ = tmpFile.Close()

	return tmpFile.Name()
}

func TestLoad(t *testing.T) {
	yamlContent := `email:
  imap: "imap.test.com:993"
  login: "test@example.com"
  password: "testpass"
  mailbox: "INBOX"
  batchSize: 50
sender: "12306@rails.com.cn"
passengerName: "张三"
sourceTag: "12306"
logLevel: debug
report:
  path: "/tmp/tickets.csv"
  format: csv
`

	cfg, err := Load(writeConfig(t, yamlContent))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Email.Imap != "imap.test.com:993" {
		t.Errorf("Expected imap 'imap.test.com:993', got '%s'", cfg.Email.Imap)
	}

	if cfg.Email.BatchSize != 50 {
		t.Errorf("Expected batchSize 50, got %d", cfg.Email.BatchSize)
	}

	if cfg.PassengerName != "张三" {
		t.Errorf("Expected passengerName '张三', got '%s'", cfg.PassengerName)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected logLevel 'debug', got '%s'", cfg.LogLevel)
	}

	if cfg.Report.Format != "csv" {
		t.Errorf("Expected report format 'csv', got '%s'", cfg.Report.Format)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "passengerName: \"张三\"\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{name: "imap", got: cfg.Email.Imap, expected: DefaultImap},
		{name: "mailbox", got: cfg.Email.MailBox, expected: DefaultMailBox},
		{name: "sender", got: cfg.Sender, expected: DefaultSender},
		{name: "sourceTag", got: cfg.SourceTag, expected: DefaultSourceTag},
		{name: "report path", got: cfg.Report.Path, expected: DefaultReportPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("Expected %s '%s', got '%s'", tt.name, tt.expected, tt.got)
			}
		})
	}

	if cfg.Email.BatchSize != DefaultBatchSize {
		t.Errorf("Expected batchSize %d, got %d", DefaultBatchSize, cfg.Email.BatchSize)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv(EnvPassword, "from-env")
	t.Setenv(EnvPassengerName, "李四")

	cfg, err := Load(writeConfig(t, "email:\n  password: from-file\npassengerName: \"张三\"\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Email.Password != "from-env" {
		t.Errorf("Expected password from env, got '%s'", cfg.Email.Password)
	}

	if cfg.PassengerName != "李四" {
		t.Errorf("Expected passengerName from env, got '%s'", cfg.PassengerName)
	}
}

func TestLoad_MissingPassengerName(t *testing.T) {
	t.Setenv(EnvPassengerName, "")

	_, err := Load(writeConfig(t, "sender: \"12306@rails.com.cn\"\n"))
	if !errors.Is(err, ErrMissingPassengerName) {
		t.Errorf("Expected ErrMissingPassengerName, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}
