package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	payload string
}

func (e testEvent) Name() string { return "test.event" }

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := New(zap.NewNop())
	received := make(chan string, 1)

	bus.Subscribe("test.event", func(ctx context.Context, event Event) error {
		received <- event.(testEvent).payload
		return nil
	})

	bus.Publish(context.Background(), testEvent{payload: "hello"})

	select {
	case got := <-received:
		require.Equal(t, "hello", got)
	case <-time.After(2 * time.Second):
		t.Fatal("событие не доставлено подписчику")
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := New(zap.NewNop())
	bus.Publish(context.Background(), testEvent{payload: "ignored"})
}
