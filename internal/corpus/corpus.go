// Package corpus turns a set of input files into one merged, deduplicated,
// chronologically ordered message sequence and its display grouping.
package corpus

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/MikeSquared-Agency/commlog/internal/chat"
	"github.com/MikeSquared-Agency/commlog/internal/mail"
	"github.com/MikeSquared-Agency/commlog/internal/record"
)

// IdentifyFile parses one input file's text. Mail extraction is tried
// first; anything it does not recognize is parsed as a chat export.
func IdentifyFile(text string, users *record.Users) ([]record.Message, error) {
	msg, ok, err := mail.Extract(text, users)
	if err != nil {
		return nil, err
	}
	if ok {
		return []record.Message{msg}, nil
	}
	return chat.Identify(splitLines(text), users)
}

// ProcessFiles reads and parses every input in order, sharing users across
// all of them, then merges the combined lists. Any parse failure aborts the
// whole run; partial results are discarded.
func ProcessFiles(paths []string, users *record.Users) ([]record.Message, error) {
	var all []record.Message
	for _, path := range paths {
		text, err := readInput(path)
		if err != nil {
			return nil, err
		}
		msgs, err := IdentifyFile(text, users)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		all = append(all, msgs...)
	}
	return Merge(all), nil
}

func readInput(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	// Phone exports often start with a UTF-8 BOM.
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
	return string(b), nil
}

// splitLines breaks text into physical lines without their terminators.
// A trailing newline does not produce a phantom empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
