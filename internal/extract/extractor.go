package extract

import (
	"strconv"
	"strings"

	"railticket-exporter/internal/models"
)

// step is one post-processing transformation over a draft record. Steps never fail;
// a value they cannot produce is left absent.
type step func(rec models.TicketRecord, body string)

// Extractor turns a normalized notification body into a TicketRecord
type Extractor struct {
	target string
	rules  []rule
	steps  []step
}

// New creates an Extractor that verifies tickets against the passenger's exact display name
func New(target string) *Extractor {
	e := &Extractor{target: target}

	e.rules = append(e.rules, baseRules...)
	if target != "" {
		e.rules = append(e.rules, passengerRule(target))
	}

	e.steps = []step{
		composeSeat,
		formatFare,
		e.verifyOwner,
		inferStatus,
		fallbackPurchaseDate,
	}
	return e
}

// Extract applies every rule to body, then the post-processing steps in order
func (e *Extractor) Extract(body string) models.TicketRecord {
	rec := models.TicketRecord{}

	for _, r := range e.rules {
		m := r.pattern.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		for i, f := range r.fields {
			v := m[i+1]
			if v == "" {
				continue
			}
			if r.upper {
				v = strings.ToUpper(v)
			}
			rec.Set(f, v)
		}
	}

	for _, s := range e.steps {
		s(rec, body)
	}
	return rec
}

func composeSeat(rec models.TicketRecord, body string) {
	carriage, hasCarriage := rec.Get(models.FieldCarriage)
	seat, hasSeat := rec.Get(models.FieldSeatNumber)

	switch {
	case hasCarriage && hasSeat:
		rec.Set(models.FieldSeat, strings.TrimRight(carriage, "车")+"车"+seat)
	case rec.Value(models.FieldSeatClass) == models.NoSeat:
		if !hasCarriage && strings.Contains(body, "车") {
			if m := carriageNoSeatPattern.FindStringSubmatch(body); m != nil {
				carriage = strings.TrimSpace(m[1])
				hasCarriage = carriage != ""
				if hasCarriage {
					rec.Set(models.FieldCarriage, carriage)
				}
			}
		}
		if hasCarriage {
			rec.Set(models.FieldSeat, carriage+models.NoSeat)
		} else {
			rec.Set(models.FieldSeat, models.NoSeat)
		}
		rec.Set(models.FieldSeatNumber, models.NoSeat)
	default:
		rec.Unset(models.FieldSeat)
	}
}

func formatFare(rec models.TicketRecord, _ string) {
	fare, ok := rec.Get(models.FieldFare)
	if !ok {
		return
	}
	if formatted, ok := FormatFare(fare); ok {
		rec.Set(models.FieldFare, formatted)
	} else {
		rec.Unset(models.FieldFare)
	}
}

// FormatFare renders a fare with exactly one fractional digit. Formatting its own output
// returns the same string.
func FormatFare(s string) (string, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return "", false
	}
	return strconv.FormatFloat(v, 'f', 1, 64), true
}

func (e *Extractor) verifyOwner(rec models.TicketRecord, _ string) {
	name, ok := rec.Get(models.FieldPassenger)
	if ok && e.target != "" && strings.TrimSpace(name) == e.target {
		rec.Set(models.FieldOwnerMatch, models.OwnerYes)
		return
	}
	rec.Set(models.FieldOwnerMatch, models.OwnerNo)
}

func inferStatus(rec models.TicketRecord, body string) {
	if refundPattern.MatchString(body) {
		rec.Set(models.FieldStatus, models.StatusRefunded)
		return
	}
	rec.Set(models.FieldStatus, models.StatusValid)
}

func fallbackPurchaseDate(rec models.TicketRecord, body string) {
	if rec.Has(models.FieldPurchaseDate) {
		return
	}
	if m := orderCreatedPattern.FindStringSubmatch(body); m != nil {
		rec.Set(models.FieldPurchaseDate, m[1]+"年"+m[2]+"月"+m[3]+"日")
	}
}
