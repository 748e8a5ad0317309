package listeners

import (
	"context"

	"essaydesk/internal/events"
	"essaydesk/pkg/eventbus"

	"go.uber.org/zap"
)

// NotificationListener фиксирует события жизненного цикла заказа.
// Сама доставка уведомлений (почта и т.п.) выполняется внешним сервисом,
// здесь только журналирование факта.
type NotificationListener struct {
	logger *zap.Logger
}

func NewNotificationListener(logger *zap.Logger) *NotificationListener {
	return &NotificationListener{logger: logger}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.OrderCreatedEvent{}.Name(), l.onOrderCreated)
	bus.Subscribe(events.OrderTransitionedEvent{}.Name(), l.onOrderTransitioned)
	bus.Subscribe(events.OrderRepricedEvent{}.Name(), l.onOrderRepriced)
}

func (l *NotificationListener) onOrderCreated(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderCreatedEvent)
	if !ok {
		return nil
	}
	l.logger.Info("Заказ создан",
		zap.Uint64("orderID", e.OrderID),
		zap.Uint64("clientID", e.ClientID),
		zap.String("status", string(e.Status)),
		zap.String("total", e.Total),
	)
	return nil
}

func (l *NotificationListener) onOrderTransitioned(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderTransitionedEvent)
	if !ok {
		return nil
	}
	l.logger.Info("Статус заказа изменён",
		zap.Uint64("orderID", e.OrderID),
		zap.Uint64("actorID", e.ActorID),
		zap.String("event", string(e.Event)),
		zap.String("from", string(e.From)),
		zap.String("to", string(e.To)),
	)
	return nil
}

func (l *NotificationListener) onOrderRepriced(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderRepricedEvent)
	if !ok {
		return nil
	}
	l.logger.Info("Цена заказа пересчитана",
		zap.Uint64("orderID", e.OrderID),
		zap.String("oldTotal", e.OldTotal),
		zap.String("newTotal", e.NewTotal),
	)
	return nil
}
