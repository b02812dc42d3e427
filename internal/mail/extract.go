// Package mail extracts a single message record from an exported mail file.
// This is a best-effort structural sniff, not MIME validation: any text with
// parseable header lines including a From field is treated as mail.
package mail

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	netmail "net/mail"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/commlog/internal/record"
)

// ErrNoBody means a mail-like file carried neither a plain-text nor an HTML
// body part. Fatal: there is no silent empty-body fallback.
var ErrNoBody = errors.New("mail message has no text or HTML body part")

// Extract attempts to read text as a structured mail message. It reports
// ok=false when the text does not parse as mail or has no From header, in
// which case the caller falls back to chat parsing. On success it produces
// exactly one message: the From header (HTML-escaped, since it is embedded
// unescaped into markup later), the Date header with its timezone dropped,
// and the body preferring a plain-text part over an HTML one.
func Extract(text string, users *record.Users) (record.Message, bool, error) {
	m, err := netmail.ReadMessage(strings.NewReader(text))
	if err != nil {
		return record.Message{}, false, nil
	}
	from := m.Header.Get("From")
	if from == "" {
		return record.Message{}, false, nil
	}

	ts, err := parseDate(m.Header.Get("Date"))
	if err != nil {
		return record.Message{}, true, fmt.Errorf("mail date: %w", err)
	}

	body, err := extractBody(m.Body, m.Header.Get("Content-Type"), m.Header.Get("Content-Transfer-Encoding"))
	if err != nil {
		return record.Message{}, true, err
	}

	sender := html.EscapeString(from)
	return record.New(users, ts, sender, body, record.SourceMail), true, nil
}

// parseDate reads an RFC 5322 date and keeps only its wall-clock fields,
// matching the chat path's timezone-free timestamps.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing Date header")
	}
	t, err := netmail.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", s, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

type bodyParts struct {
	plain *string
	html  *string
}

// extractBody walks the message body, collecting the first plain-text and
// first HTML parts. Multipart containers are descended recursively so a
// multipart/alternative nested in multipart/mixed still resolves.
func extractBody(r io.Reader, contentType, encoding string) (string, error) {
	var found bodyParts
	if err := collect(r, contentType, encoding, &found); err != nil {
		return "", err
	}
	switch {
	case found.plain != nil:
		return *found.plain, nil
	case found.html != nil:
		return *found.html, nil
	}
	return "", ErrNoBody
}

func collect(r io.Reader, contentType, encoding string, found *bodyParts) error {
	mediaType := "text/plain" // RFC 2045 default for absent Content-Type
	var params map[string]string
	if contentType != "" {
		mt, p, err := mime.ParseMediaType(contentType)
		if err != nil {
			return nil // unintelligible part, skip it
		}
		mediaType, params = mt, p
	}

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		mr := multipart.NewReader(r, params["boundary"])
		for {
			p, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read mail part: %w", err)
			}
			err = collect(p, p.Header.Get("Content-Type"), p.Header.Get("Content-Transfer-Encoding"), found)
			if err != nil {
				return err
			}
		}
	case mediaType == "text/plain" && found.plain == nil:
		s, err := decode(r, encoding)
		if err != nil {
			return err
		}
		found.plain = &s
	case mediaType == "text/html" && found.html == nil:
		s, err := decode(r, encoding)
		if err != nil {
			return err
		}
		found.html = &s
	}
	return nil
}

// decode reads a part's content, undoing its transfer encoding.
func decode(r io.Reader, encoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("decode mail body: %w", err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
