package infrastructure

import (
	"context"
	"errors"
	"testing"

	"gambler/wager-engine/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher collects published events
type recordingPublisher struct {
	published []events.Event
	failOn    events.EventType
}

func (r *recordingPublisher) Publish(event events.Event) error {
	if event.Type() == r.failOn {
		return errors.New("publish failed")
	}
	r.published = append(r.published, event)
	return nil
}

func TestNATSTransactionalPublisher_FlushPublishesInOrder(t *testing.T) {
	sink := &recordingPublisher{}
	publisher := NewNATSTransactionalPublisher(sink)

	require.NoError(t, publisher.Publish(events.AccountCreatedEvent{AccountID: 1}))
	require.NoError(t, publisher.Publish(events.BalanceChangeEvent{AccountID: 1, NewBalance: 100}))
	assert.Empty(t, sink.published)
	assert.Equal(t, 2, publisher.PendingCount())

	require.NoError(t, publisher.Flush(context.Background()))
	require.Len(t, sink.published, 2)
	assert.Equal(t, events.EventTypeAccountCreated, sink.published[0].Type())
	assert.Equal(t, events.EventTypeBalanceChange, sink.published[1].Type())
	assert.Zero(t, publisher.PendingCount())
}

func TestNATSTransactionalPublisher_DiscardDropsEvents(t *testing.T) {
	sink := &recordingPublisher{}
	publisher := NewNATSTransactionalPublisher(sink)

	require.NoError(t, publisher.Publish(events.WagerSettledEvent{WagerID: 9}))
	publisher.Discard()
	require.NoError(t, publisher.Flush(context.Background()))

	assert.Empty(t, sink.published)
}

func TestNATSTransactionalPublisher_FailedEventDoesNotBlockOthers(t *testing.T) {
	sink := &recordingPublisher{failOn: events.EventTypeWagerSettled}
	publisher := NewNATSTransactionalPublisher(sink)

	require.NoError(t, publisher.Publish(events.WagerSettledEvent{WagerID: 1}))
	require.NoError(t, publisher.Publish(events.BalanceChangeEvent{AccountID: 1}))
	require.NoError(t, publisher.Flush(context.Background()))

	require.Len(t, sink.published, 1)
	assert.Equal(t, events.EventTypeBalanceChange, sink.published[0].Type())
}
