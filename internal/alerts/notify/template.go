package notify

import (
	"bytes"
	"errors"
	"text/template"
	"time"

	alerts "pointage-cloud/internal/alerts/domain"
)

// DefaultTemplate renders the summary sent to each destination: the top-3
// absence and top-3 lateness alerts.
const DefaultTemplate = `RAPPORT D'ALERTES QR POINTAGE
{{ if .Absences }}
ABSENCES: {{ .AbsenceCount }} employé(s)
{{- range .Absences }}
- {{ .Matricule }} ({{ .Domain }}): {{ .Count }} absences
{{- end }}
{{ end }}
{{- if .Lates }}
RETARDS: {{ .LatenessCount }} employé(s)
{{- range .Lates }}
- {{ .Matricule }} ({{ .Domain }}): {{ .Count }} retards
{{- end }}
{{ end }}
Période: {{ .GeneratedAt }}`

// TemplateData provides fields for rendering the alert summary.
type TemplateData struct {
	AbsenceCount  int
	LatenessCount int
	Absences      []alerts.Alert
	Lates         []alerts.Alert
	GeneratedAt   string
}

// Template renders alert summaries.
type Template struct {
	tpl *template.Template
}

// NewTemplate parses a summary template, falling back to DefaultTemplate.
func NewTemplate(tpl string) (*Template, error) {
	if tpl == "" {
		tpl = DefaultTemplate
	}
	parsed, err := template.New("alert-summary").Parse(tpl)
	if err != nil {
		return nil, err
	}
	return &Template{tpl: parsed}, nil
}

// Render builds the summary text for a scanned alert list.
func (t *Template) Render(alertList []alerts.Alert, now time.Time) (string, error) {
	if t == nil || t.tpl == nil {
		return "", errors.New("alert template: nil")
	}

	data := TemplateData{GeneratedAt: now.Format("02/01/2006 15:04")}
	for _, alert := range alertList {
		switch alert.Kind {
		case alerts.KindExcessiveAbsence:
			data.AbsenceCount++
			if len(data.Absences) < 3 {
				data.Absences = append(data.Absences, alert)
			}
		case alerts.KindFrequentLateness:
			data.LatenessCount++
			if len(data.Lates) < 3 {
				data.Lates = append(data.Lates, alert)
			}
		}
	}

	var buf bytes.Buffer
	if err := t.tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
