package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBridge_DeliversToSubscriber(t *testing.T) {
	bridge := NewBridge()
	received := make(chan Event, 1)

	bridge.Subscribe(EventSyncCompleted, func(e Event) {
		received <- e
	})

	bridge.Emit(EventSyncCompleted, "payload")

	select {
	case event := <-received:
		assert.Equal(t, EventSyncCompleted, event.Name)
		assert.Equal(t, "payload", event.Payload)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestBridge_EmitWithoutSubscribersIsNoop(t *testing.T) {
	bridge := NewBridge()
	assert.NotPanics(t, func() {
		bridge.Emit(EventItemLinked, nil)
	})
}

func TestBridge_SubscriberOnlySeesItsEvent(t *testing.T) {
	bridge := NewBridge()
	received := make(chan Event, 2)

	bridge.Subscribe(EventItemLoginRequired, func(e Event) {
		received <- e
	})

	bridge.Emit(EventSyncCompleted, nil)
	bridge.Emit(EventItemLoginRequired, "item-1")

	select {
	case event := <-received:
		assert.Equal(t, EventItemLoginRequired, event.Name)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}

	select {
	case event := <-received:
		t.Fatalf("unexpected extra event %q", event.Name)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBridge_UnsubscribeStopsDelivery(t *testing.T) {
	bridge := NewBridge()
	received := make(chan Event, 1)

	unsubscribe := bridge.Subscribe(EventSyncCompleted, func(e Event) {
		received <- e
	})
	unsubscribe()

	bridge.Emit(EventSyncCompleted, nil)

	select {
	case <-received:
		t.Fatal("unsubscribed handler still received an event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBridge_ConcurrentEmitAndSubscribe(t *testing.T) {
	bridge := NewBridge()

	var delivered sync.WaitGroup
	delivered.Add(10)
	for i := 0; i < 10; i++ {
		bridge.Subscribe(EventSyncCompleted, func(e Event) {
			delivered.Done()
		})
	}

	var emitters sync.WaitGroup
	for i := 0; i < 4; i++ {
		emitters.Add(1)
		go func() {
			defer emitters.Done()
			bridge.Subscribe(EventItemLinked, func(Event) {})
		}()
	}
	emitters.Wait()

	bridge.Emit(EventSyncCompleted, nil)

	done := make(chan struct{})
	go func() {
		delivered.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("not all handlers ran")
	}
}
