package events

// EventRouter fronts the event bus for the ledger and token registry so
// publishers do not manage subscriptions themselves.
type EventRouter struct {
	eventBus *EventBus
}

func NewEventRouter(eventBus *EventBus) *EventRouter {
	return &EventRouter{
		eventBus: eventBus,
	}
}

// PublishMintEvent publishes a mint event to all subscribers
func (er *EventRouter) PublishMintEvent(event MintEvent) {
	er.eventBus.Publish(event)
}

// Subscribe subscribes to all mint events
func (er *EventRouter) Subscribe() (SubscriberID, chan MintEvent) {
	return er.eventBus.Subscribe()
}

// Unsubscribe removes a subscription
func (er *EventRouter) Unsubscribe(id SubscriberID) bool {
	return er.eventBus.Unsubscribe(id)
}
