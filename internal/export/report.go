// internal/export/report.go
//
// Printable review reports. A report is a single self-contained HTML file
// with every section, its verification status and the review comments,
// so a review round can be attached to an email or audit trail.

package export

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/yuin/goldmark"

	"github.com/yourusername/guidelens/internal/review"
)

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Name}} · review report</title>
<style>
body { font-family: Georgia, serif; max-width: 56rem; margin: 2rem auto; color: #222; }
h1 { border-bottom: 2px solid #444; padding-bottom: .3rem; }
section { margin: 1.5rem 0; padding: 1rem; border-left: 4px solid #999; background: #fafafa; }
section.agree { border-left-color: #2e7d32; }
section.disagree { border-left-color: #c62828; }
.status { font-size: .85rem; font-weight: bold; text-transform: uppercase; letter-spacing: .05em; }
.status.agree { color: #2e7d32; }
.status.disagree { color: #c62828; }
.status.unverified { color: #1565c0; }
.comment { margin: .6rem 0; padding: .5rem .8rem; background: #f0f0f0; border-radius: .4rem; }
.comment .author { font-size: .85rem; color: #555; font-weight: bold; }
footer { font-size: .8rem; color: #777; margin-top: 2rem; }
pre { white-space: pre-wrap; }
</style>
</head>
<body>
<h1>{{.Name}}</h1>
<p>Guideline <code>{{.ID}}</code>{{if .PDFURL}} · <a href="{{.PDFURL}}">source PDF</a>{{end}}</p>
{{range .Sections}}
<section class="{{.Class}}">
<h2>{{.Title}}</h2>
<p class="status {{.Class}}">{{.Status}}</p>
{{if .HTML}}{{.HTML}}{{else}}<pre>{{.Body}}</pre>{{end}}
</section>
{{end}}
<section>
<h2>Comments</h2>
{{if .Comments}}{{range .Comments}}
<div class="comment"><div class="author">{{.Author}}</div><div>{{.Text}}</div></div>
{{end}}{{else}}<p>No comments.</p>{{end}}
</section>
<footer>Exported {{.Exported}} by guidelens.</footer>
</body>
</html>
`

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

type reportSection struct {
	Title  string
	Status string
	Class  string
	Body   string
	HTML   template.HTML
}

type reportComment struct {
	Author string
	Text   string
}

type reportData struct {
	ID       string
	Name     string
	PDFURL   string
	Sections []reportSection
	Comments []reportComment
	Exported string
}

// Report renders a guideline review snapshot to standalone HTML. The
// criteria section is markdown and gets converted; the other sections
// are escaped verbatim.
func Report(rec review.Record) ([]byte, error) {
	data := reportData{
		ID:       rec.ID,
		Name:     rec.Name,
		PDFURL:   rec.PDFURL,
		Exported: time.Now().UTC().Format(time.RFC3339),
	}
	for _, field := range review.Fields {
		status := rec.State(field).Status()
		section := reportSection{
			Title:  field.Title(),
			Status: status.String(),
			Class:  statusClass(status),
			Body:   rec.Value(field),
		}
		if field == review.FieldCriteria {
			var buf bytes.Buffer
			if err := goldmark.Convert([]byte(rec.Criteria), &buf); err != nil {
				return nil, fmt.Errorf("export: render criteria markdown: %w", err)
			}
			section.HTML = template.HTML(buf.String())
		}
		data.Sections = append(data.Sections, section)
	}
	for _, author := range rec.CommentAuthors() {
		data.Comments = append(data.Comments, reportComment{
			Author: author,
			Text:   rec.Comments[author],
		})
	}

	var out bytes.Buffer
	if err := reportTmpl.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("export: execute report template: %w", err)
	}
	return out.Bytes(), nil
}

func statusClass(s review.Status) string {
	switch s {
	case review.StatusAgree:
		return "agree"
	case review.StatusDisagree:
		return "disagree"
	default:
		return "unverified"
	}
}
