package corpus

import (
	"path/filepath"
	"strings"

	"github.com/MikeSquared-Agency/commlog/internal/record"
)

// Group is one display unit: a sender and their messages.
type Group struct {
	Sender   string
	Messages []record.Message
}

// View is the structure handed to the renderer.
type View struct {
	Groups    []Group
	Basenames []string // input file names with directory and extension stripped
	Paths     []string // original input paths, unmodified
}

// BuildView arranges the merged sequence into display groups. With collate,
// each maximal run of consecutive same-sender messages becomes one group; a
// sender returning after someone else starts a new group. Without collate,
// every message stands alone.
func BuildView(msgs []record.Message, paths []string, collate bool) View {
	v := View{Paths: paths}
	for _, p := range paths {
		base := filepath.Base(p)
		v.Basenames = append(v.Basenames, strings.TrimSuffix(base, filepath.Ext(base)))
	}

	for _, m := range msgs {
		if n := len(v.Groups); collate && n > 0 && v.Groups[n-1].Sender == m.Sender {
			v.Groups[n-1].Messages = append(v.Groups[n-1].Messages, m)
			continue
		}
		v.Groups = append(v.Groups, Group{Sender: m.Sender, Messages: []record.Message{m}})
	}
	return v
}
