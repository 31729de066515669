package mailparse

import (
	"io"
	"mime"
	"regexp"
	"strings"

	"railticket-exporter/internal/logging"
	"railticket-exporter/internal/models"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-message"
	"github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var emailAddressPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Parse turns a fetched IMAP message into a models.Email with a normalized body
func Parse(msg *imap.Message) (*models.Email, error) {
	section := &imap.BodySectionName{}
	r := msg.GetBody(section)
	if r == nil {
		return nil, io.EOF
	}

	email, err := ParseReader(r)
	if err != nil {
		return nil, err
	}

	email.UID = msg.Uid
	email.InternalDate = msg.InternalDate
	return email, nil
}

// ParseReader parses a raw RFC 822 message.
// Only a broken header block is an error; body decoding problems are logged and leave the body empty.
func ParseReader(r io.Reader) (*models.Email, error) {
	mr, err := mail.CreateReader(r)
	if err != nil && (mr == nil || !message.IsUnknownCharset(err)) {
		return nil, err
	}

	email := &models.Email{
		TraceID: uuid.New().String(),
	}
	locallog := logging.Log.WithField("trace_id", email.TraceID)

	header := mr.Header
	email.From = extractFrom(header)
	email.Subject = header.Get("Subject")
	email.Body = Normalize(readParts(mr, locallog))

	return email, nil
}

// readParts collects the decoded text parts of the message in order. Charset conversion
// happens inside go-message; parts with an unknown charset are kept as raw bytes.
func readParts(mr *mail.Reader, locallog *logrus.Entry) []Part {
	var parts []Part
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil && !message.IsUnknownCharset(err) {
			locallog.WithError(err).Error("Error reading message part")
			break
		} else if err != nil {
			locallog.WithError(err).Warn("Unknown charset, keeping raw bytes")
		}
		if p == nil {
			break
		}

		contentType, disposition := partType(p.Header)
		if disposition == "attachment" {
			continue
		}
		if contentType != "text/plain" && contentType != "text/html" {
			continue
		}

		body, err := io.ReadAll(p.Body)
		if err != nil {
			locallog.WithError(err).Errorf("Error decoding %s part", contentType)
			continue
		}
		if len(body) == 0 {
			continue
		}

		parts = append(parts, Part{ContentType: contentType, Text: strings.ToValidUTF8(string(body), "�")})
	}
	return parts
}

// partType returns the media type and disposition of a part. A part without a
// Content-Type header is plain text, as RFC 2045 specifies.
func partType(h mail.PartHeader) (string, string) {
	contentType := "text/plain"
	if raw := h.Get("Content-Type"); raw != "" {
		if t, _, err := mime.ParseMediaType(raw); err == nil {
			contentType = strings.ToLower(t)
		}
	}

	var disposition string
	if raw := h.Get("Content-Disposition"); raw != "" {
		if d, _, err := mime.ParseMediaType(raw); err == nil {
			disposition = strings.ToLower(d)
		}
	}
	return contentType, disposition
}

func extractFrom(header mail.Header) string {
	if list, err := header.AddressList("From"); err == nil && len(list) > 0 {
		return list[0].Address
	}
	return extractEmailAddress(header.Get("From"))
}

// Simple regex to extract email address from "From" header, which may contain name and email
func extractEmailAddress(fromHeader string) string {
	return emailAddressPattern.FindString(fromHeader)
}

// DecodeHeader decodes MIME-encoded headers (e.g., "=?GBK?B?...?=") to plain text
func DecodeHeader(encoded string) (string, error) {
	decoder := &mime.WordDecoder{CharsetReader: charset.Reader}
	decoded, err := decoder.DecodeHeader(encoded)
	if err != nil {
		return "", err
	}
	return decoded, nil
}
