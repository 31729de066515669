package railway

import (
	"strings"

	"railticket-exporter/internal/logging"
	"railticket-exporter/internal/models"
	"railticket-exporter/internal/subject"
)

// Extractor turns a normalized body into a ticket record
type Extractor interface {
	Extract(body string) models.TicketRecord
}

type Service struct {
	extractor Extractor
	config    *models.Config
}

// NewService creates a new ticket Service with the provided extractor and configuration
func NewService(extractor Extractor, cfg *models.Config) *Service {
	return &Service{
		extractor: extractor,
		config:    cfg,
	}
}

// HandleEmail gates a parsed message on sender and subject, then extracts its ticket fields.
// The returned Entry is only meaningful when the result is ResultAccepted.
func (s *Service) HandleEmail(email *models.Email) (models.Entry, models.Result) {
	locallog := logging.Log.WithField("trace_id", email.TraceID)

	// Filter by sender
	if !strings.EqualFold(email.From, s.config.Sender) {
		locallog.Infof("Email received from %s, skip ...", email.From)
		return models.Entry{}, models.ResultSkipped
	}

	display, ok := subject.Classify(email.Subject)
	if !ok {
		locallog.Infof("Email UID %d rejected by subject", email.UID)
		return models.Entry{}, models.ResultRejected
	}

	if email.Body == "" {
		locallog.Warnf("Empty body for %q, no fields to extract", display)
	}

	record := s.extractor.Extract(email.Body)
	locallog.WithField("subject", display).Debugf("Extracted %d fields", len(record))

	return models.Entry{
		Record:  record,
		Subject: display,
		TraceID: email.TraceID,
	}, models.ResultAccepted
}
