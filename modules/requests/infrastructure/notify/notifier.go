package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"text/template"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/approvals/modules/requests/domain/request"
	"github.com/iota-uz/approvals/pkg/metrics"
)

// contactField is the fixed payload path the destination is read from.
const contactField = "contact_email"

type Channel interface {
	Send(ctx context.Context, destination, body string) error
}

type Notifier struct {
	channel   Channel
	templates *template.Template
	log       logrus.FieldLogger
}

func New(channel Channel, log logrus.FieldLogger) *Notifier {
	return &Notifier{
		channel:   channel,
		templates: template.Must(template.New("notifications").Parse(builtinTemplates)),
		log:       log,
	}
}

// Notify renders the template against the request and dispatches it. Every
// failure is logged and swallowed here: a notification must never overturn an
// already-committed status change. A missing contact field is a no-op.
func (n *Notifier) Notify(ctx context.Context, r *request.Request, templateID string) {
	log := n.log.WithFields(logrus.Fields{
		"request_id": r.ID,
		"template":   templateID,
	})

	dest, ok := r.PayloadField(contactField)
	if !ok || dest == "" {
		log.Debug("no contact field in payload, skipping notification")
		return
	}

	body, err := n.render(r, templateID)
	if err != nil {
		metrics.NotificationFailures.Inc()
		log.WithError(err).Error("failed to render notification")
		return
	}

	if err := n.channel.Send(ctx, dest, body); err != nil {
		metrics.NotificationFailures.Inc()
		log.WithError(err).Error("failed to dispatch notification")
	}
}

func (n *Notifier) render(r *request.Request, templateID string) (string, error) {
	tmpl := n.templates.Lookup(templateID)
	if tmpl == nil {
		return "", &unknownTemplateError{id: templateID}
	}

	var payload map[string]any
	if err := json.Unmarshal(r.Payload, &payload); err != nil {
		return "", err
	}

	data := map[string]any{
		"ID":      r.ID.String(),
		"Type":    string(r.Type),
		"Status":  string(r.Status),
		"Payload": payload,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type unknownTemplateError struct {
	id string
}

func (e *unknownTemplateError) Error() string {
	return "unknown notification template: " + e.id
}
