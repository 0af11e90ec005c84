package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/kpister/elf/types"
)

const (
	// DefaultSubject is the subject template used when none is configured.
	DefaultSubject = "{{.Name}}'s Secret Santa Report"

	// DefaultSignature closes every message unless overridden.
	DefaultSignature = "Santa"
)

const textBody = `Hi {{.Name}},

You have been assigned:
{{join .Recipients "\n"}}

Thank you for your hard work,
{{.Signature}}`

const htmlBody = `<html><body>Hi {{.Name}},<br><br>You have been assigned:<br>` +
	`{{range $i, $r := .Recipients}}{{if $i}}<br>{{end}}{{$r}}{{end}}` +
	`<br><br>Thank you for your hard work,<br>{{.Signature}}</body></html>`

// Message is a rendered report ready for delivery.
type Message struct {
	Name    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// Renderer turns reports into messages.
type Renderer struct {
	signature string
	subject   *texttemplate.Template
	text      *texttemplate.Template
	html      *htmltemplate.Template
}

type renderData struct {
	Name       string
	Email      string
	Recipients []string
	Signature  string
}

// NewRenderer parses the message templates.
//
// Parameters:
//   - signature: Closing line of every message (DefaultSignature if empty)
//   - subject: text/template for the subject line (DefaultSubject if empty);
//     it can reference .Name, .Email and .Recipients
//
// Returns:
//   - *Renderer: Ready renderer
//   - error: Subject template parse error
func NewRenderer(signature, subject string) (*Renderer, error) {
	if signature == "" {
		signature = DefaultSignature
	}
	if subject == "" {
		subject = DefaultSubject
	}

	subj, err := texttemplate.New("subject").Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("parse subject template: %w", err)
	}

	return &Renderer{
		signature: signature,
		subject:   subj,
		text: texttemplate.Must(texttemplate.New("text").
			Funcs(texttemplate.FuncMap{"join": strings.Join}).
			Parse(textBody)),
		html: htmltemplate.Must(htmltemplate.New("html").Parse(htmlBody)),
	}, nil
}

// Render renders the subject, plain-text and HTML bodies for one report.
func (r *Renderer) Render(report types.Report) (Message, error) {
	data := renderData{
		Name:       report.Name,
		Email:      report.Email,
		Recipients: report.Recipients,
		Signature:  r.signature,
	}

	var subject, text, html bytes.Buffer
	if err := r.subject.Execute(&subject, data); err != nil {
		return Message{}, fmt.Errorf("render subject for %q: %w", report.Name, err)
	}
	if err := r.text.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render text for %q: %w", report.Name, err)
	}
	if err := r.html.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render html for %q: %w", report.Name, err)
	}

	return Message{
		Name:    report.Name,
		To:      report.Email,
		Subject: strings.TrimSpace(subject.String()),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
