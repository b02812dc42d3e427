package mail

import (
	"errors"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/commlog/internal/record"
)

func TestExtract_PlainMessage(t *testing.T) {
	text := "From: Fake Name <fake@example.com>\r\n" +
		"Date: Sat, 13 Jan 2018 01:23:45 +0200\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
		"\r\n" +
		"Hello from mail\r\n"

	msg, ok, err := Extract(text, record.NewUsers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected message to be recognized as mail")
	}

	// Wall clock kept, timezone dropped.
	want := time.Date(2018, 1, 13, 1, 23, 45, 0, time.UTC)
	if !msg.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", msg.Timestamp, want)
	}
	if msg.Sender != "Fake Name &lt;fake@example.com&gt;" {
		t.Errorf("sender = %q, want escaped From header", msg.Sender)
	}
	if msg.Body != "Hello from mail" {
		t.Errorf("body = %q", msg.Body)
	}
	if msg.Source != record.SourceMail {
		t.Errorf("source = %v, want mail", msg.Source)
	}
	if msg.SenderID != 1 {
		t.Errorf("sender id = %d, want 1", msg.SenderID)
	}
}

func TestExtract_PrefersPlainOverHTML(t *testing.T) {
	text := "From: a@example.com\r\n" +
		"Date: Sat, 13 Jan 2018 01:23:45 +0000\r\n" +
		"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
		"\r\n" +
		"--b1\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<p>Hi</p>\r\n" +
		"--b1\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"Hi plain\r\n" +
		"--b1--\r\n"

	msg, ok, err := Extract(text, record.NewUsers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected mail")
	}
	if msg.Body != "Hi plain" {
		t.Errorf("body = %q, want the plain part", msg.Body)
	}
}

func TestExtract_FallsBackToHTMLPart(t *testing.T) {
	text := "From: a@example.com\r\n" +
		"Date: Sat, 13 Jan 2018 01:23:45 +0000\r\n" +
		"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
		"\r\n" +
		"--b1\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<p>Hi</p>\r\n" +
		"--b1--\r\n"

	msg, ok, err := Extract(text, record.NewUsers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected mail")
	}
	if msg.Body != "<p>Hi</p>" {
		t.Errorf("body = %q, want the HTML part", msg.Body)
	}
}

func TestExtract_QuotedPrintableBody(t *testing.T) {
	text := "From: a@example.com\r\n" +
		"Date: Sat, 13 Jan 2018 01:23:45 +0000\r\n" +
		"Content-Type: text/plain\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"Caf=C3=A9\r\n"

	msg, _, err := Extract(text, record.NewUsers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Body != "Café" {
		t.Errorf("body = %q, want decoded Café", msg.Body)
	}
}

func TestExtract_NotMail(t *testing.T) {
	_, ok, err := Extract("13/01/18, 01:23 - Alice: hi\nline2\n", record.NewUsers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("chat export misclassified as mail")
	}
}

func TestExtract_NoFromHeader(t *testing.T) {
	text := "Subject: hello\r\n\r\nbody text\r\n"

	_, ok, err := Extract(text, record.NewUsers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("headers without From should not classify as mail")
	}
}

func TestExtract_NoBodyPartIsFatal(t *testing.T) {
	text := "From: a@example.com\r\n" +
		"Date: Sat, 13 Jan 2018 01:23:45 +0000\r\n" +
		"Content-Type: multipart/mixed; boundary=\"b1\"\r\n" +
		"\r\n" +
		"--b1\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"\r\n" +
		"AAAA\r\n" +
		"--b1--\r\n"

	_, ok, err := Extract(text, record.NewUsers())
	if !ok {
		t.Fatal("expected mail classification")
	}
	if !errors.Is(err, ErrNoBody) {
		t.Fatalf("expected ErrNoBody, got %v", err)
	}
}

func TestExtract_BadDateIsFatal(t *testing.T) {
	text := "From: a@example.com\r\n" +
		"Date: not a date\r\n" +
		"\r\n" +
		"body\r\n"

	_, ok, err := Extract(text, record.NewUsers())
	if !ok {
		t.Fatal("expected mail classification")
	}
	if err == nil {
		t.Fatal("expected date parse error")
	}
}
