package subject

import (
	"strings"

	"railticket-exporter/internal/logging"
	"railticket-exporter/internal/mailparse"
)

// WaitlistRefundNotice marks waitlisted-order refund mails, which never describe a ticket
const WaitlistRefundNotice = "候补订单退单通知"

// Prefixes stripped from display subjects, first match wins
var Prefixes = []string{"网上购票系统-", "列车"}

// Classify decodes a raw Subject header and returns the display subject.
// ok is false when the message must be excluded from the report.
func Classify(raw string) (display string, ok bool) {
	decoded, err := mailparse.DecodeHeader(raw)
	if err != nil {
		logging.Log.WithError(err).Warnf("Error decoding subject %q, using raw value", raw)
		decoded = raw
	}

	if strings.Contains(decoded, WaitlistRefundNotice) {
		return "", false
	}

	display = decoded
	for _, prefix := range Prefixes {
		if strings.HasPrefix(decoded, prefix) {
			display = strings.TrimPrefix(decoded, prefix)
			break
		}
	}

	if display == "" {
		return "", false
	}
	return display, true
}
