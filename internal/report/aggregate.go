package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"railticket-exporter/internal/models"
)

const (
	dateLayout        = "2006年1月2日"
	displayDateLayout = "2006年01月02日"
	timeLayout        = "15:04"
)

// Columns is the order of fields in the exported table
var Columns = []models.Field{
	models.FieldDepartureDate,
	models.FieldDepartureTime,
	models.FieldOrigin,
	models.FieldDestination,
	models.FieldTrainNumber,
	models.FieldSeat,
	models.FieldCarriage,
	models.FieldSeatNumber,
	models.FieldSeatClass,
	models.FieldFare,
	models.FieldSubject,
	models.FieldOrderID,
	models.FieldPurchaseDate,
	models.FieldStatus,
	models.FieldSource,
}

// Subject keywords that mark a refund or cancellation notice
var refundSubjectKeywords = []string{"退票", "退单"}

var ErrNothingToExport = errors.New("nothing to export")

// DateParseError reports a retained record whose departure date or time cannot be read.
// It fails the whole batch, since dropping the record would silently reorder the history.
type DateParseError struct {
	TraceID string
	OrderID string
	Subject string
	Field   models.Field
	Value   string
	Err     error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("record %s (order %q, subject %q): cannot parse %s %q: %v",
		e.TraceID, e.OrderID, e.Subject, e.Field, e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}

// Options controls the metadata stamped on every row
type Options struct {
	SourceTag string
}

// Table is the ordered report handed to a Writer
type Table struct {
	Columns []models.Field
	Rows    []models.TicketRecord
}

type sortableRow struct {
	record    models.TicketRecord
	departure time.Time
	clock     time.Time
}

// Aggregate annotates, filters, and chronologically sorts the accepted entries.
// It never mutates the records it is given.
func Aggregate(entries []models.Entry, opts Options) (*Table, error) {
	var rows []sortableRow

	for _, entry := range entries {
		if entry.Record.IsEmpty() {
			continue
		}

		rec := entry.Record.Clone()
		annotate(rec, entry.Subject, opts.SourceTag)

		if rec.Value(models.FieldOwnerMatch) != models.OwnerYes {
			continue
		}

		departure, clock, err := parseDeparture(rec, entry.TraceID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, sortableRow{record: rec, departure: departure, clock: clock})
	}

	if len(rows) == 0 {
		return nil, ErrNothingToExport
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].departure.Equal(rows[j].departure) {
			return rows[i].departure.Before(rows[j].departure)
		}
		return rows[i].clock.Before(rows[j].clock)
	})

	table := &Table{Columns: Columns, Rows: make([]models.TicketRecord, 0, len(rows))}
	for _, row := range rows {
		row.record.Set(models.FieldDepartureDate, row.departure.Format(displayDateLayout))
		row.record.Set(models.FieldDepartureTime, row.clock.Format(timeLayout))
		table.Rows = append(table.Rows, row.record)
	}
	return table, nil
}

// annotate stamps subject and source. A refund keyword in the subject wins over the body-derived status.
func annotate(rec models.TicketRecord, subject, sourceTag string) {
	rec.Set(models.FieldSubject, subject)
	rec.Set(models.FieldSource, sourceTag)

	for _, kw := range refundSubjectKeywords {
		if strings.Contains(subject, kw) {
			rec.Set(models.FieldStatus, models.StatusRefunded)
			break
		}
	}
}

func parseDeparture(rec models.TicketRecord, traceID string) (time.Time, time.Time, error) {
	fail := func(f models.Field, value string, err error) error {
		return &DateParseError{
			TraceID: traceID,
			OrderID: rec.Value(models.FieldOrderID),
			Subject: rec.Value(models.FieldSubject),
			Field:   f,
			Value:   value,
			Err:     err,
		}
	}

	dateStr, ok := rec.Get(models.FieldDepartureDate)
	if !ok {
		return time.Time{}, time.Time{}, fail(models.FieldDepartureDate, "", errors.New("missing"))
	}
	departure, err := time.Parse(dateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, time.Time{}, fail(models.FieldDepartureDate, dateStr, err)
	}

	timeStr, ok := rec.Get(models.FieldDepartureTime)
	if !ok {
		return time.Time{}, time.Time{}, fail(models.FieldDepartureTime, "", errors.New("missing"))
	}
	clock, err := time.Parse(timeLayout, strings.TrimSpace(timeStr))
	if err != nil {
		return time.Time{}, time.Time{}, fail(models.FieldDepartureTime, timeStr, err)
	}

	return departure, clock, nil
}
