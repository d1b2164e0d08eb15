// Package health aggregates readiness of the service's dependencies.
package health

import (
	"context"
	"time"
)

// Statuses reported per dependency and overall.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

const checkTimeout = 3 * time.Second

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks an external provider's availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}

// Report is the aggregated health snapshot.
type Report struct {
	Status string
	Checks map[string]string // dependency name -> "ok" or error text
}

// Service runs health checks against the service's dependencies.
type Service struct {
	db        DBPinger
	embedding ProviderChecker
	chat      ProviderChecker
}

// New creates the health service.
func New(db DBPinger, embedding, chat ProviderChecker) *Service {
	return &Service{db: db, embedding: embedding, chat: chat}
}

// Check probes every dependency. Overall status is degraded when any
// dependency fails; the report still lists each check individually.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	report := Report{Status: StatusOK, Checks: make(map[string]string, 3)}

	record := func(name string, err error) {
		if err != nil {
			report.Status = StatusDegraded
			report.Checks[name] = err.Error()
			return
		}
		report.Checks[name] = StatusOK
	}

	record("database", s.db.Ping(ctx))
	record("embedding", s.embedding.HealthCheck(ctx))
	record("chat", s.chat.HealthCheck(ctx))

	return report
}
