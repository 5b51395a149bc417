package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/worker-directory/internal/events"
)

func TestDispatcher_DeliversToSubscribers(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	var got []events.EventType
	d.Subscribe(events.EventStaffDeleted, func(_ context.Context, e events.Event) error {
		got = append(got, e.Type)
		return nil
	})

	assert.NoError(t, d.Publish(context.Background(), events.NewEvent(events.EventStaffDeleted, "s1")))
	assert.NoError(t, d.Publish(context.Background(), events.NewEvent(events.EventReportExported, "s1")))

	assert.Equal(t, []events.EventType{events.EventStaffDeleted}, got)
}

func TestDispatcher_FailingHandlerDoesNotStopOthers(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	boom := errors.New("boom")
	called := false
	d.Subscribe(events.EventStaffDeleted, func(context.Context, events.Event) error { return boom })
	d.Subscribe(events.EventStaffDeleted, func(context.Context, events.Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), events.NewEvent(events.EventStaffDeleted, "s1"))

	assert.ErrorIs(t, err, boom)
	assert.True(t, called)
}
