package relay

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AkhilMylaram/IcecreamStore-microservices-project/pkg/outbox"
)

type fakeQueue struct {
	records []outbox.Record
}

func (f *fakeQueue) FetchPending(_ context.Context, limit int) ([]outbox.Record, error) {
	var out []outbox.Record
	for _, r := range f.records {
		if r.SentAt == nil {
			out = append(out, r)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeQueue) MarkSent(_ context.Context, id int64) error {
	now := time.Now()
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].SentAt = &now
			return nil
		}
	}
	return errors.New("record not found")
}

func (f *fakeQueue) pendingCount() int {
	n := 0
	for _, r := range f.records {
		if r.SentAt == nil {
			n++
		}
	}
	return n
}

type fakePublisher struct {
	published []string
	failAfter int // fail every publish once this many have succeeded
}

func (f *fakePublisher) Publish(_ context.Context, key string, payload []byte) error {
	if f.failAfter > 0 && len(f.published) >= f.failAfter {
		return errors.New("broker unavailable")
	}
	f.published = append(f.published, key)
	return nil
}

func record(id int64, key string) outbox.Record {
	payload, _ := json.Marshal(map[string]string{"recipient": key})
	return outbox.Record{ID: id, EventID: key + "-event", Topic: "icecream.notifications", Key: key, Payload: payload}
}

func TestRunOncePublishesAndMarksSent(t *testing.T) {
	q := &fakeQueue{records: []outbox.Record{record(1, "a@x.com"), record(2, "b@x.com")}}
	p := &fakePublisher{}
	r := New(q, p, zap.NewNop(), time.Second, 100)

	require.NoError(t, r.RunOnce(context.Background()))

	assert.Equal(t, []string{"a@x.com", "b@x.com"}, p.published)
	assert.Zero(t, q.pendingCount())
}

func TestRunOnceStopsBatchOnPublishError(t *testing.T) {
	q := &fakeQueue{records: []outbox.Record{record(1, "a@x.com"), record(2, "b@x.com"), record(3, "c@x.com")}}
	p := &fakePublisher{failAfter: 1}
	r := New(q, p, zap.NewNop(), time.Second, 100)

	err := r.RunOnce(context.Background())
	require.Error(t, err)

	// Only the record published before the failure is marked; the rest stay
	// pending for the next pass.
	assert.Equal(t, []string{"a@x.com"}, p.published)
	assert.Equal(t, 2, q.pendingCount())

	// Broker back up: the next pass delivers the remainder.
	p.failAfter = 0
	require.NoError(t, r.RunOnce(context.Background()))
	assert.Zero(t, q.pendingCount())
}

func TestRunOnceHonorsBatchSize(t *testing.T) {
	q := &fakeQueue{records: []outbox.Record{record(1, "a@x.com"), record(2, "b@x.com"), record(3, "c@x.com")}}
	p := &fakePublisher{}
	r := New(q, p, zap.NewNop(), time.Second, 2)

	require.NoError(t, r.RunOnce(context.Background()))
	assert.Len(t, p.published, 2)
	assert.Equal(t, 1, q.pendingCount())
}
