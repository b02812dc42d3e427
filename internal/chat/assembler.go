package chat

import (
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/commlog/internal/record"
)

// Identify assembles the lines of one chat export into messages. A line
// matching a start pattern completes the message in progress and begins the
// next one; any other line continues the current message's body, joined by
// a newline. Sender ids are resolved through users, which is shared across
// all files of a run.
func Identify(lines []string, users *record.Users) ([]record.Message, error) {
	var msgs []record.Message
	var cur *startLine

	for _, line := range lines {
		start, err := parseLine(line)
		if err != nil {
			return nil, err
		}
		if start != nil {
			if cur != nil {
				msgs = append(msgs, record.New(users, cur.ts, cur.sender, cur.body, record.SourceChat))
			}
			cur = start
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("%w: %q matches neither %q nor %q",
				ErrFirstLine, line, matchers[0].re.String(), matchers[1].re.String())
		}
		cur.body += "\n" + strings.TrimSpace(line)
	}

	// The last message has no successor to complete it.
	if cur != nil {
		msgs = append(msgs, record.New(users, cur.ts, cur.sender, cur.body, record.SourceChat))
	}
	return msgs, nil
}
