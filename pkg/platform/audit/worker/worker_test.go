package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"studycat/pkg/platform/audit/store/postgres"
)

type fakeOutbox struct {
	pending   []postgres.OutboxEntry
	listErr   error
	published []uuid.UUID
	markedAt  time.Time
}

func (f *fakeOutbox) ListPendingOutbox(_ context.Context, limit int) ([]postgres.OutboxEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutbox) MarkOutboxPublished(_ context.Context, ids []uuid.UUID, at time.Time) error {
	f.published = append(f.published, ids...)
	f.markedAt = at
	return nil
}

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	f.records = append(f.records, rs...)
	results := make(kgo.ProduceResults, len(rs))
	for i, r := range rs {
		results[i] = kgo.ProduceResult{Record: r, Err: f.err}
	}
	return results
}

func entry(aggregate, eventType string) postgres.OutboxEntry {
	return postgres.OutboxEntry{
		ID:            uuid.New(),
		AggregateType: "study",
		AggregateID:   aggregate,
		EventType:     eventType,
		Payload:       []byte(`{"action":"` + eventType + `"}`),
		CreatedAt:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRunOnce_PublishesAndMarks(t *testing.T) {
	outbox := &fakeOutbox{pending: []postgres.OutboxEntry{
		entry("s1", "study_created"),
		entry("s1", "study_field_updated"),
	}}
	producer := &fakeProducer{}
	fixed := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	w := NewWorker(outbox, producer, "studycat.audit", WithClock(func() time.Time { return fixed }))

	n, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, producer.records, 2)
	assert.Equal(t, "studycat.audit", producer.records[0].Topic)
	assert.Equal(t, []byte("s1"), producer.records[0].Key)
	assert.Equal(t, "event_type", producer.records[1].Headers[0].Key)
	assert.Equal(t, []byte("study_field_updated"), producer.records[1].Headers[0].Value)

	assert.Equal(t, []uuid.UUID{outbox.pending[0].ID, outbox.pending[1].ID}, outbox.published)
	assert.Equal(t, fixed, outbox.markedAt)
}

func TestRunOnce_RespectsBatchSize(t *testing.T) {
	outbox := &fakeOutbox{pending: []postgres.OutboxEntry{
		entry("a", "study_created"), entry("b", "study_created"), entry("c", "study_created"),
	}}
	w := NewWorker(outbox, &fakeProducer{}, "t", WithBatchSize(2))

	n, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, outbox.published, 2)
}

func TestRunOnce_ProduceFailureLeavesRowsPending(t *testing.T) {
	outbox := &fakeOutbox{pending: []postgres.OutboxEntry{entry("s1", "study_deleted")}}
	w := NewWorker(outbox, &fakeProducer{err: errors.New("broker down")}, "t")

	_, err := w.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.Empty(t, outbox.published)
}

func TestRunOnce_EmptyOutbox(t *testing.T) {
	producer := &fakeProducer{}
	w := NewWorker(&fakeOutbox{}, producer, "t")

	n, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, producer.records)
}

func TestRunOnce_ListFailure(t *testing.T) {
	w := NewWorker(&fakeOutbox{listErr: errors.New("db gone")}, &fakeProducer{}, "t")
	_, err := w.RunOnce(context.Background())
	assert.ErrorContains(t, err, "db gone")
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(&fakeOutbox{}, &fakeProducer{}, "t", WithInterval(10*time.Millisecond))

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
