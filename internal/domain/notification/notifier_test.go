package notification

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
	done   chan struct{}
}

func (p *capturePublisher) Publish(_ context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	if p.done != nil {
		close(p.done)
		p.done = nil
	}
	return p.err
}

func TestDispatcher_PublishesInBackground(t *testing.T) {
	pub := &capturePublisher{done: make(chan struct{})}
	done := pub.done
	d := NewDispatcher(pub, logging.NewNopLogger(), nil)

	d.Dispatch(NewEvent(EventComplaintFiled, "worker-1", common.RoleWorker, map[string]interface{}{"complaint_id": "c1"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not published")
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.events, 1)
	assert.Equal(t, EventComplaintFiled, pub.events[0].Type)
	assert.Equal(t, "worker-1", pub.events[0].RecipientID)
	assert.NotEmpty(t, pub.events[0].ID)
}

func TestDispatcher_FailureIsSwallowed(t *testing.T) {
	pub := &capturePublisher{err: fmt.Errorf("broker down"), done: make(chan struct{})}
	done := pub.done

	var failures int32
	var mu sync.Mutex
	d := NewDispatcher(pub, logging.NewNopLogger(), func() {
		mu.Lock()
		failures++
		mu.Unlock()
	})

	// Dispatch must not panic or block even though every publish fails.
	d.Dispatch(NewEvent(EventAppointmentCancelled, "worker-1", common.RoleWorker, nil))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish attempt never happened")
	}
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return failures == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDispatcher_NilSafe(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() {
		d.Dispatch(NewEvent(EventComplaintFiled, "w", common.RoleWorker, nil))
	})
}
