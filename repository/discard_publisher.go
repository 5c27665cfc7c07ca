package repository

import "gambler/wager-engine/domain/events"

type discardPublisher struct{}

func (discardPublisher) Publish(events.Event) error { return nil }
