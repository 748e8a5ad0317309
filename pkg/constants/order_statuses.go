package constants

import "fmt"

// OrderStatus - статус заказа в жизненном цикле.
type OrderStatus string

const (
	StatusDraft      OrderStatus = "draft"
	StatusPending    OrderStatus = "pending"
	StatusInProgress OrderStatus = "in_progress"
	StatusRevision   OrderStatus = "revision"
	StatusActive     OrderStatus = "active"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

var validOrderStatuses = map[OrderStatus]struct{}{
	StatusDraft:      {},
	StatusPending:    {},
	StatusInProgress: {},
	StatusRevision:   {},
	StatusActive:     {},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// Финальные статусы: из них переходы запрещены.
var TerminalStatuses = []OrderStatus{
	StatusCompleted,
	StatusCancelled,
}

func IsTerminalStatus(s OrderStatus) bool {
	for _, t := range TerminalStatuses {
		if s == t {
			return true
		}
	}
	return false
}

func ToOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := validOrderStatuses[status]; !ok {
		return "", fmt.Errorf("неизвестный статус заказа: %q", s)
	}
	return status, nil
}

// OrderEvent - событие, переводящее заказ из одного статуса в другой.
type OrderEvent string

const (
	EventAssign          OrderEvent = "assign"
	EventComplete        OrderEvent = "complete"
	EventReject          OrderEvent = "reject"
	EventRequestRevision OrderEvent = "request_revision"
	EventSetStatus       OrderEvent = "set_status"
)
