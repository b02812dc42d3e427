package corpus

import (
	"sort"
	"time"

	"github.com/MikeSquared-Agency/commlog/internal/record"
)

// DuplicateTolerance is how far apart two timestamps may be for records
// with identical sender and body to still count as the same message. The
// same conversation often appears once per participant's export, and the
// participants' clocks are never exactly in sync.
const DuplicateTolerance = 60 * time.Second

// Merge sorts the combined per-file lists by timestamp (stable, so file
// order and within-file order break ties) and walks the result, dropping
// every record that duplicates an already accepted one.
func Merge(msgs []record.Message) []record.Message {
	sorted := make([]record.Message, len(msgs))
	copy(sorted, msgs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	accepted := make([]record.Message, 0, len(sorted))
	for _, m := range sorted {
		if isDuplicate(accepted, m) {
			continue
		}
		accepted = append(accepted, m)
	}
	return accepted
}

// isDuplicate scans the accepted list for a record with the same sender and
// body within the tolerance window. Quadratic over the corpus, which is
// fine at single-conversation export volumes.
func isDuplicate(accepted []record.Message, m record.Message) bool {
	for _, a := range accepted {
		if a.Sender != m.Sender || a.Body != m.Body {
			continue
		}
		diff := m.Timestamp.Sub(a.Timestamp)
		if diff < 0 {
			diff = -diff
		}
		if diff <= DuplicateTolerance {
			return true
		}
	}
	return false
}
