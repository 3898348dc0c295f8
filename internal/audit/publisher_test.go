package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "healthbridge/pkg/domain"
	dErrors "healthbridge/pkg/domain-errors"
	"healthbridge/pkg/requestcontext"
)

type failingStore struct{ err error }

func (s failingStore) Append(context.Context, Entry) error { return s.err }
func (s failingStore) ListByTarget(context.Context, string) ([]Entry, error) {
	return nil, s.err
}

type blockingStore struct {
	release chan struct{}
	mu      sync.Mutex
	count   int
}

func (s *blockingStore) Append(context.Context, Entry) error {
	<-s.release
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	return nil
}
func (s *blockingStore) ListByTarget(context.Context, string) ([]Entry, error) { return nil, nil }

type recordingSink struct {
	mu      sync.Mutex
	entries []Entry
	err     error
}

func (s *recordingSink) Publish(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return s.err
}

type PublisherSuite struct {
	suite.Suite
	logger *slog.Logger
	doctor id.DoctorActor
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.doctor = id.DoctorActor{ID: id.DoctorID(uuid.New()), HospitalID: id.HospitalID(uuid.New())}
}

func (s *PublisherSuite) TestEmitEnrichesFromContext() {
	store := NewInMemoryStore()
	p := NewPublisher(store, WithPublisherLogger(s.logger))

	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), at)
	ctx = requestcontext.WithRequestID(ctx, "req-42")
	ctx = requestcontext.WithClientMetadata(ctx, "10.1.2.3", "curl/8.0")
	ctx = requestcontext.WithDevice(ctx, "curl on Linux")

	s.Require().NoError(p.Emit(ctx, NewEntry(s.doctor, ActionRequestAccess, "patient-1")))

	all := store.All()
	s.Require().Len(all, 1)
	e := all[0]
	s.False(e.ID.IsNil())
	s.Equal(at, e.Timestamp)
	s.Equal(id.RoleDoctor, e.ActorRole)
	s.Equal(s.doctor.ID.String(), e.ActorID)
	s.Equal("req-42", e.RequestID)
	s.Equal("10.1.2.3", e.ClientIP)
	s.Equal("curl on Linux", e.Device)
}

func (s *PublisherSuite) TestSyncStoreFailureIsReturned() {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	p := NewPublisher(failingStore{err: errors.New("db down")}, WithPublisherLogger(s.logger), WithPublisherMetrics(m))

	err := p.Emit(context.Background(), NewEntry(s.doctor, ActionViewPatient, "p"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Equal(float64(1), testutil.ToFloat64(m.Failures.WithLabelValues("store")))
}

func (s *PublisherSuite) TestMirrorsReceivePersistedEntries() {
	sink := &recordingSink{}
	broken := &recordingSink{err: errors.New("kafka unavailable")}
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	p := NewPublisher(NewInMemoryStore(), WithMirror(sink), WithMirror(broken), WithMirror(nil),
		WithPublisherLogger(s.logger), WithPublisherMetrics(m))

	s.Require().NoError(p.Emit(context.Background(), NewEntry(s.doctor, ActionEmergencyAccessStart, "p")))
	s.Len(sink.entries, 1)
	s.Len(broken.entries, 1)
	s.Equal(float64(1), testutil.ToFloat64(m.Failures.WithLabelValues("mirror")))
	s.Equal(float64(1), testutil.ToFloat64(m.EntriesRecorded.WithLabelValues("EMERGENCY_ACCESS_START")))
}

func (s *PublisherSuite) TestMirrorSkippedWhenStoreFails() {
	sink := &recordingSink{}
	p := NewPublisher(failingStore{err: errors.New("db down")}, WithMirror(sink), WithPublisherLogger(s.logger))
	_ = p.Emit(context.Background(), NewEntry(s.doctor, ActionViewPatient, "p"))
	s.Empty(sink.entries)
}

func (s *PublisherSuite) TestAsyncDrainsOnClose() {
	store := NewInMemoryStore()
	p := NewPublisher(store, WithAsyncBuffer(8), WithPublisherLogger(s.logger))
	for range 5 {
		s.Require().NoError(p.Emit(context.Background(), NewEntry(s.doctor, ActionViewPatient, "p")))
	}
	p.Close()
	s.Len(store.All(), 5)

	err := p.Emit(context.Background(), NewEntry(s.doctor, ActionViewPatient, "p"))
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	p.Close()
}

func (s *PublisherSuite) TestAsyncDropsWhenFull() {
	store := &blockingStore{release: make(chan struct{})}
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	p := NewPublisher(store, WithAsyncBuffer(1), WithPublisherLogger(s.logger), WithPublisherMetrics(m))

	var dropped int
	for range 10 {
		if errors.Is(p.Emit(context.Background(), NewEntry(s.doctor, ActionViewPatient, "p")), ErrBufferFull) {
			dropped++
		}
	}
	close(store.release)
	p.Close()

	s.Positive(dropped)
	s.Equal(float64(dropped), testutil.ToFloat64(m.Dropped))
	s.Equal(10-dropped, store.count)
}

func TestInMemoryStore_ListByTargetNewestFirst(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(ctx, Entry{TargetID: "p1", Action: ActionRequestAccess, Timestamp: t0}))
	require.NoError(t, store.Append(ctx, Entry{TargetID: "p2", Action: ActionRequestAccess, Timestamp: t0}))
	require.NoError(t, store.Append(ctx, Entry{TargetID: "p1", Action: ActionViewPatient, Timestamp: t0.Add(time.Hour)}))

	entries, err := store.ListByTarget(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionViewPatient, entries[0].Action)
	assert.Equal(t, ActionRequestAccess, entries[1].Action)

	store.Clear()
	assert.Empty(t, store.All())
}
