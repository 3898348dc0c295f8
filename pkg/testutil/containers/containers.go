//go:build integration

// Package containers starts Postgres and Kafka once per test binary for the
// integration suites. Ryuk removes the containers when the process exits.
package containers

import (
	"sync"
	"testing"
)

// Manager lazily starts each backend on first use.
type Manager struct {
	pgOnce   sync.Once
	postgres *PostgresContainer

	kafkaOnce sync.Once
	kafka     *KafkaContainer
}

var shared = &Manager{}

func GetManager() *Manager {
	return shared
}

// GetPostgres returns the shared Postgres with migrations applied.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	m.pgOnce.Do(func() { m.postgres = NewPostgresContainer(t) })
	if m.postgres == nil {
		t.Fatal("postgres container failed to start earlier in this run")
	}
	return m.postgres
}

// GetKafka returns the shared Kafka-compatible broker.
func (m *Manager) GetKafka(t *testing.T) *KafkaContainer {
	t.Helper()
	m.kafkaOnce.Do(func() { m.kafka = NewKafkaContainer(t) })
	if m.kafka == nil {
		t.Fatal("kafka container failed to start earlier in this run")
	}
	return m.kafka
}
