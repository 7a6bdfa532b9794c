package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "approvals_requests_submitted_total",
		Help: "Requests accepted into the review queue, by request type.",
	}, []string{"type"})

	RequestsApproved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "approvals_requests_approved_total",
		Help: "Requests whose approval pipeline committed, by request type.",
	}, []string{"type"})

	RequestsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "approvals_requests_rejected_total",
		Help: "Requests rejected by a reviewer, by request type.",
	}, []string{"type"})

	PipelineFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "approvals_pipeline_failures_total",
		Help: "Approval pipeline aborts, by stage (entity, credentials, commit).",
	}, []string{"stage"})

	OrphanedEntities = promauto.NewCounter(prometheus.CounterOpts{
		Name: "approvals_orphaned_entities_total",
		Help: "Remote entities created whose credential grant then failed; reconciled manually.",
	})

	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "approvals_notification_failures_total",
		Help: "Best-effort notification dispatches that failed after a committed transition.",
	})
)
