// Package reports renders complaint case files as downloadable documents.
package reports

import (
	"bytes"
	"html/template"
	"time"

	"github.com/laborguard/complaint-service/internal/domain/complaint"
	"github.com/laborguard/complaint-service/pkg/errors"
)

const complaintReportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Complaint Report {{.Complaint.ID}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
h1 { border-bottom: 2px solid #444; padding-bottom: .3rem; }
table { border-collapse: collapse; margin: 1rem 0; }
td, th { border: 1px solid #bbb; padding: .4rem .8rem; text-align: left; }
.meta { color: #666; font-size: .85rem; }
</style>
</head>
<body>
<h1>Complaint Report</h1>
<p class="meta">Generated {{.GeneratedAt.Format "2006-01-02 15:04 MST"}}</p>

<table>
<tr><th>ID</th><td>{{.Complaint.ID}}</td></tr>
<tr><th>Title</th><td>{{.Complaint.Title}}</td></tr>
<tr><th>Category</th><td>{{.Complaint.Category}}</td></tr>
<tr><th>Priority</th><td>{{.Complaint.Priority}}</td></tr>
<tr><th>Status</th><td>{{.Complaint.Status}}</td></tr>
{{if not .Complaint.IsAnonymous}}<tr><th>Filed by</th><td>{{.Complaint.WorkerID}}</td></tr>{{end}}
{{with .Complaint.AssignedTo}}<tr><th>Assigned officer</th><td>{{.}}</td></tr>{{end}}
{{with .Complaint.OrganizationName}}<tr><th>Organization</th><td>{{.}}</td></tr>{{end}}
<tr><th>Location</th><td>{{.Complaint.Location.City}} {{.Complaint.Location.District}} {{.Complaint.Location.Country}}</td></tr>
<tr><th>Filed at</th><td>{{.Complaint.CreatedAt.Format "2006-01-02 15:04 MST"}}</td></tr>
{{with .Complaint.ResolvedAt}}<tr><th>Closed at</th><td>{{.Format "2006-01-02 15:04 MST"}}</td></tr>{{end}}
</table>

<h2>Description</h2>
<p>{{.Complaint.Description}}</p>

<h2>Status History</h2>
<table>
<tr><th>Status</th><th>Changed by</th><th>Role</th><th>Reason</th><th>At</th></tr>
{{range .Complaint.StatusHistory}}
<tr><td>{{.Status}}</td><td>{{.ChangedBy}}</td><td>{{.ChangedByRole}}</td><td>{{.Reason}}</td><td>{{.ChangedAt.Format "2006-01-02 15:04"}}</td></tr>
{{end}}
</table>

{{if .Complaint.Attachments}}
<h2>Evidence</h2>
<table>
<tr><th>File</th><th>Type</th><th>Uploaded</th></tr>
{{range .Complaint.Attachments}}
<tr><td>{{.OriginalName}}</td><td>{{.FileType}}</td><td>{{.UploadedAt.Format "2006-01-02 15:04"}}</td></tr>
{{end}}
</table>
{{end}}
</body>
</html>
`

// Renderer produces report documents from complaint data.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the report templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("complaint-report").Parse(complaintReportTemplate)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to parse report template")
	}
	return &Renderer{tmpl: tmpl}, nil
}

// ComplaintReport renders one complaint with its full audit trail.
func (r *Renderer) ComplaintReport(c *complaint.Complaint, generatedAt time.Time) ([]byte, error) {
	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, struct {
		Complaint   *complaint.Complaint
		GeneratedAt time.Time
	}{Complaint: c, GeneratedAt: generatedAt})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to render complaint report")
	}
	return buf.Bytes(), nil
}
