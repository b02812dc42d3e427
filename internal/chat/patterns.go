package chat

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Sentinel errors for chat parsing. Both are fatal for the whole run.
var (
	// ErrFirstLine means a file's first line matched no start pattern, so
	// there is no message for it to continue.
	ErrFirstLine = errors.New("cannot parse first line")

	// ErrBadTimestamp means a line matched a start pattern but its date or
	// time segment does not resolve to a calendar date.
	ErrBadTimestamp = errors.New("cannot resolve timestamp")
)

// The export line format changes between app versions and locales, so the
// matchers live in an ordered table: first match wins, and handling a new
// variant is a data edit, not new control flow.
const clockPart = `(?P<time>[\d:]+( [AP]M)?)`

type lineKind int

const (
	// kindMessage is "<date>, <time> - <sender>: <body>".
	kindMessage lineKind = iota
	// kindHeaderless is "<date>, <time> - <body>", used by service lines
	// such as join and encryption notices.
	kindHeaderless
)

type matcher struct {
	kind lineKind
	re   *regexp.Regexp
}

// The sender-bearing form must come first: the headerless form also matches
// sender lines and would swallow "Sender: " into the body.
//
// The sender group is everything up to the first ": " after the timestamp,
// so a body that itself begins "word: word" on a start line splits at that
// colon. Known limitation, kept as-is.
var matchers = []matcher{
	{kindMessage, regexp.MustCompile(`^(?P<date>[.\d/-]+),? ` + clockPart + `( -|:) (?P<name>[^:]+): (?P<body>.*)$`)},
	{kindHeaderless, regexp.MustCompile(`^(?P<date>[.\d/-]+),? ` + clockPart + `( -|:) (?P<body>.*)$`)},
}

// startLine is a parsed message-start line.
type startLine struct {
	ts     time.Time
	sender string // empty for headerless lines
	body   string
}

// parseLine classifies one export line. It returns nil for continuation
// lines. A line that matches a start pattern but carries an unresolvable
// date or time fails with ErrBadTimestamp.
func parseLine(line string) (*startLine, error) {
	for _, m := range matchers {
		g := groups(m.re, line)
		if g == nil {
			continue
		}
		ts, err := parseTimestamp(g["date"], g["time"])
		if err != nil {
			return nil, fmt.Errorf("%w in line %q: %v", ErrBadTimestamp, line, err)
		}
		sl := &startLine{ts: ts, body: g["body"]}
		if m.kind == kindMessage {
			sl.sender = g["name"]
		}
		return sl, nil
	}
	return nil, nil
}

// groups runs re against line and maps named capture groups to their text.
func groups(re *regexp.Regexp, line string) map[string]string {
	sub := re.FindStringSubmatch(line)
	if sub == nil {
		return nil
	}
	out := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" {
			out[name] = sub[i]
		}
	}
	return out
}
