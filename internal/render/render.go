// Package render turns the grouped message view into a single
// self-contained HTML page.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"html/template"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/commlog/internal/corpus"
	"github.com/MikeSquared-Agency/commlog/internal/record"
)

//go:embed default.css
var defaultCSS string

type page struct {
	Title     string
	Style     template.CSS
	Basenames []string
	Groups    []pageGroup
}

type pageGroup struct {
	Sender  template.HTML
	IDClass string // "userN", or bare "user" for senderless groups
	Msgs    []pageMessage
}

type pageMessage struct {
	Lines []template.HTML
	Stamp string
}

var tmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>{{.Style}}</style>
</head>
<body>
{{- range .Basenames}}
    <h1 class="input_file">{{.}}</h1>
{{- end}}
    <div class="speech-wrapper">
{{- range .Groups}}
        <div class="bubble">
            <div class="txt">
                <p class="name"><span class="{{.IDClass}}">{{.Sender}}</span></p>
{{- range .Msgs}}
                <div class="message">
                    <p>
{{- range .Lines}}
                        {{.}}<br>
{{- end}}
                        <span class="timestamp">{{.Stamp}}</span>
                    </p>
                </div>
{{- end}}
            </div>
            <div class="bubble-arrow"></div>
        </div>
{{- end}}
    </div>
</body>
</html>
`))

// HTML renders the view with the given stylesheet inlined.
//
// Chat content is escaped line by line. Mail bodies arrive as rendered
// markup from the mail part and pass through untouched; mail senders were
// already escaped at extraction time.
func HTML(v corpus.View, css string) ([]byte, error) {
	p := page{
		Title:     strings.Join(v.Basenames, ", "),
		Style:     template.CSS(css),
		Basenames: v.Basenames,
	}

	for _, g := range v.Groups {
		pg := pageGroup{IDClass: "user"}
		if len(g.Messages) > 0 {
			first := g.Messages[0]
			if first.SenderID > 0 {
				pg.IDClass = "user" + strconv.Itoa(first.SenderID)
			}
			if first.Source == record.SourceMail {
				pg.Sender = template.HTML(g.Sender)
			} else {
				pg.Sender = template.HTML(html.EscapeString(g.Sender))
			}
		}
		for _, m := range g.Messages {
			pm := pageMessage{Stamp: m.Timestamp.Format("2006-01-02 15:04:05")}
			for _, line := range strings.Split(m.Body, "\n") {
				if m.Source == record.SourceMail {
					pm.Lines = append(pm.Lines, template.HTML(line))
				} else {
					pm.Lines = append(pm.Lines, template.HTML(html.EscapeString(line)))
				}
			}
			pg.Msgs = append(pg.Msgs, pm)
		}
		p.Groups = append(p.Groups, pg)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadStyle returns the stylesheet to inline: the named file when path is
// set, otherwise the embedded default.
func LoadStyle(path string) (string, error) {
	if path == "" {
		return defaultCSS, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read stylesheet: %w", err)
	}
	return string(bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})), nil
}

// WriteFile writes the rendered page through a uniquely named temp file and
// renames it over the target, so a failed run never leaves partial output.
func WriteFile(path string, data []byte) error {
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace output: %w", err)
	}
	return nil
}
