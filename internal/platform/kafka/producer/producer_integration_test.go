//go:build integration

package producer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"healthbridge/internal/platform/kafka/producer"
	"healthbridge/pkg/testutil/containers"
)

type ProducerIntegrationSuite struct {
	suite.Suite
	kafka    *containers.KafkaContainer
	producer *producer.Producer
}

func TestProducerIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProducerIntegrationSuite))
}

func (s *ProducerIntegrationSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())
	cfg := producer.DefaultConfig()
	cfg.Brokers = s.kafka.Brokers
	cfg.DeliveryTimeout = 10 * time.Second
	prod, err := producer.New(cfg, nil)
	s.Require().NoError(err)
	s.producer = prod
}

func (s *ProducerIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close()
	}
}

func (s *ProducerIntegrationSuite) TestProduceDeliversWithHeaders() {
	ctx := context.Background()
	topic := "healthbridge-test-audit"
	s.Require().NoError(s.kafka.CreateTopic(ctx, topic))

	err := s.producer.Produce(ctx, &producer.Message{
		Topic:   topic,
		Key:     []byte("patient-1"),
		Value:   []byte(`{"action":"VIEW_PATIENT"}`),
		Headers: map[string]string{"action": "VIEW_PATIENT"},
	})
	s.Require().NoError(err)

	readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	record, err := s.kafka.ReadRecord(readCtx, topic, func(r *kgo.Record) bool {
		return string(r.Key) == "patient-1"
	})
	s.Require().NoError(err)
	s.Equal(`{"action":"VIEW_PATIENT"}`, string(record.Value))
	s.Require().Len(record.Headers, 1)
	s.Equal("action", record.Headers[0].Key)
}

func (s *ProducerIntegrationSuite) TestHealth() {
	s.NoError(s.producer.Health(context.Background()))
}
