package corpus

import (
	"testing"
	"time"

	"github.com/MikeSquared-Agency/commlog/internal/record"
)

func TestBuildView_Collated(t *testing.T) {
	base := time.Date(2018, 1, 13, 1, 0, 0, 0, time.UTC)
	msgs := []record.Message{
		msg(base, "A", "m1"),
		msg(base.Add(time.Minute), "A", "m2"),
		msg(base.Add(2*time.Minute), "B", "m3"),
		msg(base.Add(3*time.Minute), "A", "m4"),
	}

	v := BuildView(msgs, nil, true)
	if len(v.Groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(v.Groups))
	}
	if v.Groups[0].Sender != "A" || len(v.Groups[0].Messages) != 2 {
		t.Errorf("group[0] = %q with %d messages", v.Groups[0].Sender, len(v.Groups[0].Messages))
	}
	if v.Groups[1].Sender != "B" || len(v.Groups[1].Messages) != 1 {
		t.Errorf("group[1] = %q with %d messages", v.Groups[1].Sender, len(v.Groups[1].Messages))
	}
	// A returning after B starts a fresh group, never rejoins the first.
	if v.Groups[2].Sender != "A" || len(v.Groups[2].Messages) != 1 {
		t.Errorf("group[2] = %q with %d messages", v.Groups[2].Sender, len(v.Groups[2].Messages))
	}
}

func TestBuildView_Uncollated(t *testing.T) {
	base := time.Date(2018, 1, 13, 1, 0, 0, 0, time.UTC)
	msgs := []record.Message{
		msg(base, "A", "m1"),
		msg(base.Add(time.Minute), "A", "m2"),
		msg(base.Add(2*time.Minute), "B", "m3"),
		msg(base.Add(3*time.Minute), "A", "m4"),
	}

	v := BuildView(msgs, nil, false)
	if len(v.Groups) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(v.Groups))
	}
	for i, g := range v.Groups {
		if len(g.Messages) != 1 {
			t.Errorf("group[%d] holds %d messages, want 1", i, len(g.Messages))
		}
	}
	if v.Groups[0].Messages[0].Body != "m1" || v.Groups[3].Messages[0].Body != "m4" {
		t.Errorf("original order lost: %q ... %q",
			v.Groups[0].Messages[0].Body, v.Groups[3].Messages[0].Body)
	}
}

func TestBuildView_FileNames(t *testing.T) {
	v := BuildView(nil, []string{"/exports/chat one.txt", "mail.eml"}, true)

	if len(v.Basenames) != 2 {
		t.Fatalf("expected 2 basenames, got %d", len(v.Basenames))
	}
	if v.Basenames[0] != "chat one" || v.Basenames[1] != "mail" {
		t.Errorf("basenames = %v", v.Basenames)
	}
	if v.Paths[0] != "/exports/chat one.txt" || v.Paths[1] != "mail.eml" {
		t.Errorf("paths modified: %v", v.Paths)
	}
}

func TestBuildView_EmptySenderGroups(t *testing.T) {
	base := time.Date(2018, 1, 13, 1, 0, 0, 0, time.UTC)
	msgs := []record.Message{
		msg(base, "", "service notice"),
		msg(base.Add(time.Minute), "A", "hello"),
	}

	v := BuildView(msgs, nil, true)
	if len(v.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(v.Groups))
	}
	if v.Groups[0].Sender != "" {
		t.Errorf("group[0] sender = %q, want empty", v.Groups[0].Sender)
	}
}
