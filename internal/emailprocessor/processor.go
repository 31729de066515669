package emailprocessor

import (
	"github.com/emersion/go-imap"

	imapclient "railticket-exporter/internal/imap"
	"railticket-exporter/internal/logging"
	"railticket-exporter/internal/mailparse"
	"railticket-exporter/internal/models"
	"railticket-exporter/internal/railway"
)

// Parse progress is logged every progressInterval messages
const progressInterval = 10

type Processor struct {
	imapClient imapclient.Client
	service    *railway.Service
	batchSize  int
}

// Stats counts what happened to the messages of one run
type Stats struct {
	Found    int
	Fetched  int
	Failed   int
	Skipped  int
	Rejected int
	Accepted int
}

// NewProcessor creates a new Processor instance with the provided IMAP client and ticket service
func NewProcessor(imapClient imapclient.Client, service *railway.Service, batchSize int) *Processor {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Processor{
		imapClient: imapClient,
		service:    service,
		batchSize:  batchSize,
	}
}

// Run fetches the given UIDs batch by batch and returns the accepted entries in fetch order.
// A failed batch or an unparsable message is logged and skipped; the run goes on.
func (p *Processor) Run(uids []uint32) ([]models.Entry, Stats) {
	stats := Stats{Found: len(uids)}

	var messages []*imap.Message
	for start := 0; start < len(uids); start += p.batchSize {
		end := min(start+p.batchSize, len(uids))

		batch, err := p.imapClient.FetchMessages(uids[start:end])
		if err != nil {
			logging.Log.WithError(err).Errorf("Error fetching batch %d-%d, skipping", start+1, end)
			continue
		}
		messages = append(messages, batch...)

		logging.Log.Infof("Load progress: %.1f%% (%d/%d)", float64(end)/float64(len(uids))*100, end, len(uids))
	}
	stats.Fetched = len(messages)

	var entries []models.Entry
	for idx, msg := range messages {
		entry, result, err := p.ProcessEmail(msg)
		switch {
		case err != nil:
			stats.Failed++
			logging.Log.WithField("trace_id", "unknown").Errorf("Error parsing email UID %d: %v", msg.Uid, err)
		case result == models.ResultAccepted:
			stats.Accepted++
			entries = append(entries, entry)
		case result == models.ResultRejected:
			stats.Rejected++
		default:
			stats.Skipped++
		}

		if (idx+1)%progressInterval == 0 {
			logging.Log.Infof("Parse progress: %d/%d", idx+1, len(messages))
		}
	}

	logging.Log.WithField("accepted", stats.Accepted).
		WithField("rejected", stats.Rejected).
		WithField("skipped", stats.Skipped).
		WithField("failed", stats.Failed).
		Infof("Processed %d of %d messages", stats.Fetched, stats.Found)

	return entries, stats
}

// ProcessEmail runs one fetched message through the pipeline:
// parse → sender/subject gate → extract
func (p *Processor) ProcessEmail(msg *imap.Message) (models.Entry, models.Result, error) {
	email, err := mailparse.Parse(msg)
	if err != nil {
		return models.Entry{}, models.ResultSkipped, err
	}

	entry, result := p.service.HandleEmail(email)
	return entry, result, nil
}
