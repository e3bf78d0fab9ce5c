package bot

import (
	"sync"
	"testing"
)

func TestStateStoreLifecycle(t *testing.T) {
	store := NewStateStore()

	if store.Get(1) != StateNone {
		t.Error("Expected StateNone for unknown chat")
	}

	store.Set(1, StateAwaitingStopQuery)
	if store.Get(1) != StateAwaitingStopQuery {
		t.Error("Expected StateAwaitingStopQuery after Set")
	}

	// A new command overwrites the pending state
	store.Set(1, StateAwaitingServiceQuery)
	if store.Get(1) != StateAwaitingServiceQuery {
		t.Error("Expected Set to overwrite previous state")
	}

	store.Clear(1)
	if store.Get(1) != StateNone {
		t.Error("Expected StateNone after Clear")
	}
}

func TestStateStoreConsume(t *testing.T) {
	store := NewStateStore()
	store.Set(7, StateAwaitingStopQuery)

	if got := store.Consume(7); got != StateAwaitingStopQuery {
		t.Errorf("Expected StateAwaitingStopQuery, got %v", got)
	}
	if got := store.Consume(7); got != StateNone {
		t.Errorf("Expected StateNone on second consume, got %v", got)
	}
}

func TestStateStoreConsumeSingleWinner(t *testing.T) {
	store := NewStateStore()
	store.Set(42, StateAwaitingServiceQuery)

	const racers = 32
	var wg sync.WaitGroup
	winners := make(chan ChatState, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if st := store.Consume(42); st != StateNone {
				winners <- st
			}
		}()
	}
	wg.Wait()
	close(winners)

	count := 0
	for range winners {
		count++
	}
	if count != 1 {
		t.Errorf("Expected exactly one consumer to win, got %d", count)
	}
}

func TestStateStoreIndependentChats(t *testing.T) {
	store := NewStateStore()
	store.Set(1, StateAwaitingStopQuery)
	store.Set(2, StateAwaitingServiceQuery)

	store.Clear(1)
	if store.Get(2) != StateAwaitingServiceQuery {
		t.Error("Clearing one chat must not affect another")
	}
}
