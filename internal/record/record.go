package record

import "time"

// Source indicates which parser produced a message.
type Source int

const (
	SourceChat Source = iota
	SourceMail
)

func (s Source) String() string {
	if s == SourceMail {
		return "mail"
	}
	return "chat"
}

// Message is a single conversation entry, shared across parsers.
// Timestamps are wall-clock values with no timezone, stored in UTC.
type Message struct {
	Timestamp time.Time
	Sender    string // display name, empty for service lines
	Body      string // may contain embedded newlines
	SenderID  int    // 0 when Sender is empty
	Source    Source
}

// Users assigns stable sequential ids to sender names in first-seen order.
// One instance spans a whole run, so a sender appearing in several input
// files keeps one id. Names are compared byte for byte, never normalized.
type Users struct {
	ids  map[string]int
	next int
}

func NewUsers() *Users {
	return &Users{ids: make(map[string]int), next: 1}
}

// ID returns the id for name, allocating the next id on first sight.
// The empty name never allocates and always resolves to 0.
func (u *Users) ID(name string) int {
	if name == "" {
		return 0
	}
	if id, ok := u.ids[name]; ok {
		return id
	}
	id := u.next
	u.next++
	u.ids[name] = id
	return id
}

// Len reports how many distinct senders have been assigned ids.
func (u *Users) Len() int {
	return len(u.ids)
}

// New builds a message, resolving the sender id through u. Both the chat
// and mail paths create records here so ids stay consistent across sources.
func New(u *Users, ts time.Time, sender, body string, src Source) Message {
	return Message{
		Timestamp: ts,
		Sender:    sender,
		Body:      body,
		SenderID:  u.ID(sender),
		Source:    src,
	}
}
