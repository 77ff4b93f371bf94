// Package eventpubsub wraps EventBus with typed topics for in-process
// notifications. Publishing is asynchronous and decoupled from the
// state-changing operation that produced the event.
package eventpubsub

import (
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
)

const (
	TradeExecutedTopic = "trade.executed"
	OrderFailedTopic   = "order.failed"
)

// Bus is an injected pub/sub bus with an explicit lifecycle.
type Bus struct {
	bus EventBus.Bus
}

func NewBus() *Bus {
	return &Bus{
		bus: EventBus.New(),
	}
}

func (b *Bus) Publish(topic string, event interface{}) {
	b.bus.Publish(topic, event)
}

func (b *Bus) Subscribe(topic string, callbackFn interface{}) error {
	if err := b.bus.SubscribeAsync(topic, callbackFn, false); err != nil {
		return err
	}

	log.Infof("Subscribed to topic %s", topic)
	return nil
}

// WaitAsync blocks until all async callbacks have completed. Used on
// shutdown and in tests.
func (b *Bus) WaitAsync() {
	b.bus.WaitAsync()
}
