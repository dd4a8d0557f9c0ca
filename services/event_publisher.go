package services

// EventPublisher announces order lifecycle events to interested consumers
// (message broker, webhooks). Publishing is best-effort and happens after the
// database work has committed; implementations must not fail the caller.
type EventPublisher interface {
	OrderCreated(orderID uint, code string)
	OrderStatusChanged(orderID uint, from, to string)
}

var eventPublisherInstance EventPublisher

// GetEventPublisher returns the event publisher, falling back to a no-op when
// no broker is configured
func GetEventPublisher() EventPublisher {
	if eventPublisherInstance == nil {
		return noopEventPublisher{}
	}
	return eventPublisherInstance
}

// SetEventPublisher sets the event publisher instance (wiring and testing)
func SetEventPublisher(p EventPublisher) {
	eventPublisherInstance = p
}

type noopEventPublisher struct{}

func (noopEventPublisher) OrderCreated(orderID uint, code string)           {}
func (noopEventPublisher) OrderStatusChanged(orderID uint, from, to string) {}
