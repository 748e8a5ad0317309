package events

import (
	"essaydesk/pkg/constants"
)

// OrderCreatedEvent возникает после фиксации нового заказа.
type OrderCreatedEvent struct {
	OrderID  uint64
	ClientID uint64
	Status   constants.OrderStatus
	Total    string
}

func (e OrderCreatedEvent) Name() string { return "order.created" }

// OrderTransitionedEvent возникает после успешного перехода статуса.
type OrderTransitionedEvent struct {
	OrderID uint64
	ActorID uint64
	Event   constants.OrderEvent
	From    constants.OrderStatus
	To      constants.OrderStatus
}

func (e OrderTransitionedEvent) Name() string { return "order.transitioned" }

// OrderRepricedEvent возникает после перерасчёта цены заказа.
type OrderRepricedEvent struct {
	OrderID  uint64
	OldTotal string
	NewTotal string
}

func (e OrderRepricedEvent) Name() string { return "order.repriced" }
