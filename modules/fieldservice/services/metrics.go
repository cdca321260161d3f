package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recomputeRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldservice_progress_recompute_total",
		Help: "Progress recompute runs by outcome (changed, unchanged, error).",
	}, []string{"outcome"})

	propagationRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldservice_assignment_propagation_total",
		Help: "Assignment propagation runs with a non-empty diff.",
	})

	propagationTaskFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldservice_assignment_propagation_task_failures_total",
		Help: "Tasks that failed during assignment propagation.",
	})

	permissionWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldservice_assignment_permission_writes_total",
		Help: "Assignment permission grant and revoke writes.",
	}, []string{"op"})

	cleanupActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldservice_cleanup_actions_total",
		Help: "Cleanup cascade actions by name and outcome.",
	}, []string{"action", "outcome"})

	timelineWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldservice_timeline_write_failures_total",
		Help: "Timeline entries dropped because the write failed.",
	})
)
