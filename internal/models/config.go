package models

// Config represents the application configuration
type Config struct {
	Email         EmailConfig  `yaml:"email"`
	Sender        string       `yaml:"sender"`
	PassengerName string       `yaml:"passengerName"`
	SourceTag     string       `yaml:"sourceTag"`
	LogLevel      string       `yaml:"logLevel"`
	Report        ReportConfig `yaml:"report"`
}

// EmailConfig represents IMAP email configuration
type EmailConfig struct {
	Imap      string `yaml:"imap"`
	Login     string `yaml:"login"`
	Password  string `yaml:"password"`
	MailBox   string `yaml:"mailbox"`
	BatchSize int    `yaml:"batchSize"`
}

// ReportConfig represents where and how the ticket table is written
type ReportConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // "xlsx" or "csv", inferred from Path when empty
}
