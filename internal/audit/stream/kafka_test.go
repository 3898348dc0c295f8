package stream

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthbridge/internal/audit"
	"healthbridge/internal/platform/kafka/producer"
	id "healthbridge/pkg/domain"
)

type recordingProducer struct {
	messages []*producer.Message
	err      error
}

func (p *recordingProducer) Produce(_ context.Context, msg *producer.Message) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func TestKafkaSink_Publish(t *testing.T) {
	p := &recordingProducer{}
	sink := NewKafkaSink(p, "")

	entry := audit.Entry{
		ID:        id.NewAuditEntryID(),
		ActorRole: id.RoleDoctor,
		ActorID:   "doctor-1",
		Action:    audit.ActionEmergencyAccessStart,
		TargetID:  "patient-1",
		Timestamp: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, sink.Publish(context.Background(), entry))
	require.Len(t, p.messages, 1)

	msg := p.messages[0]
	assert.Equal(t, DefaultTopic, msg.Topic)
	assert.Equal(t, []byte("patient-1"), msg.Key)
	assert.Equal(t, "EMERGENCY_ACCESS_START", msg.Headers["action"])

	var decoded audit.Entry
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, entry, decoded)
}

func TestKafkaSink_KeysByActorWithoutTarget(t *testing.T) {
	p := &recordingProducer{}
	require.NoError(t, NewKafkaSink(p, "custom").Publish(context.Background(), audit.Entry{ActorID: "hospital-1"}))
	assert.Equal(t, "custom", p.messages[0].Topic)
	assert.Equal(t, []byte("hospital-1"), p.messages[0].Key)
}

func TestKafkaSink_WrapsProducerError(t *testing.T) {
	p := &recordingProducer{err: errors.New("broker down")}
	err := NewKafkaSink(p, "").Publish(context.Background(), audit.Entry{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}
