// Package stage defines the contract between the workflow manager and the
// individual pipeline stages.
package stage

import (
	"context"

	"dox/internal/queue"
)

// Handler describes the contract the workflow manager needs from each stage.
// Prepare runs before the item transitions to its processing status and may
// mutate the item; Execute does the work; HealthCheck reports readiness for
// diagnostics.
type Handler interface {
	Prepare(context.Context, *queue.Item) error
	Execute(context.Context, *queue.Item) error
	HealthCheck(context.Context) Health
}

// Health summarizes the readiness of a workflow stage.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

// Healthy constructs a ready Health record.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Unhealthy constructs an unhealthy Health record with context detail.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Ready: false, Detail: detail}
}
