package events

import (
	"testing"
	"time"
)

func TestPublishReachesTypedAndAllSubscribers(t *testing.T) {
	bus := NewEventBus(4)
	defer bus.Close()

	typed := bus.Subscribe(EventNotice)
	all := bus.SubscribeAll()
	other := bus.Subscribe(EventQueue)

	bus.PublishNotice("left", "choose a remote first")

	select {
	case e := <-typed:
		n, ok := e.(*NoticeEvent)
		if !ok {
			t.Fatalf("Expected *NoticeEvent, got %T", e)
		}
		if n.Message != "choose a remote first" || n.Pane != "left" {
			t.Errorf("Unexpected notice: %+v", n)
		}
	case <-time.After(time.Second):
		t.Fatal("typed subscriber did not receive the event")
	}

	select {
	case <-all:
	case <-time.After(time.Second):
		t.Fatal("all-events subscriber did not receive the event")
	}

	select {
	case e := <-other:
		t.Errorf("queue subscriber should not receive %v", e.Type())
	default:
	}
}

func TestPublishDropsWhenFull(t *testing.T) {
	bus := NewEventBus(1)
	defer bus.Close()
	_ = bus.Subscribe(EventNotice)

	bus.PublishNotice("", "one")
	bus.PublishNotice("", "two")

	if got := bus.GetDroppedEventCount(); got != 1 {
		t.Errorf("Expected 1 dropped event, got %d", got)
	}
}

func TestSubscribeAfterClose(t *testing.T) {
	bus := NewEventBus(1)
	bus.Close()
	ch := bus.Subscribe(EventJobs)
	if _, ok := <-ch; ok {
		t.Error("Expected closed channel after bus Close")
	}
	// Publishing on a closed bus must not panic
	bus.PublishNotice("", "ignored")
}

func TestNilBusPublishIsNoop(t *testing.T) {
	var bus *EventBus
	bus.Publish(&NoticeEvent{BaseEvent: NewBase(EventNotice)})
}
