package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/approvals/modules/requests/domain/request"
	"github.com/iota-uz/approvals/pkg/eventbus"
)

// RegisterAuditHandlers subscribes an audit trail to the request lifecycle
// events. Best-effort logging only; the lifecycle never depends on it.
func RegisterAuditHandlers(bus eventbus.EventBus, log *logrus.Logger) {
	bus.Subscribe(func(ev *request.CreatedEvent) {
		log.WithFields(logrus.Fields{
			"request_id": ev.Request.ID,
			"type":       ev.Request.Type,
			"actor":      ev.Actor,
		}).Info("audit: request created")
	})

	bus.Subscribe(func(ev *request.ApprovedEvent) {
		log.WithFields(logrus.Fields{
			"request_id":    ev.Request.ID,
			"entity_type":   ev.EntityType,
			"entity_id":     ev.EntityID,
			"credential_id": ev.CredentialID,
			"role":          ev.GrantedRole,
			"actor":         ev.Actor,
		}).Info("audit: request approved")
	})

	bus.Subscribe(func(ev *request.RejectedEvent) {
		log.WithFields(logrus.Fields{
			"request_id": ev.Request.ID,
			"actor":      ev.Actor,
		}).Info("audit: request rejected")
	})
}
