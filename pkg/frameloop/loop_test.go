package frameloop

import (
	"math"
	"testing"
)

func TestSubscribeAndStep(t *testing.T) {
	loop := New()
	var got []float64
	h := loop.Subscribe(func(dt float64) { got = append(got, dt) })

	if h == 0 {
		t.Fatal("Subscribe returned the zero handle")
	}

	loop.Step(0.5)
	loop.Step(0.25)

	if len(got) != 2 || got[0] != 0.5 || got[1] != 0.25 {
		t.Errorf("Unexpected deltas: %v", got)
	}
	if loop.Frames() != 2 {
		t.Errorf("Expected 2 frames, got %d", loop.Frames())
	}
	if math.Abs(loop.Elapsed()-0.75) > 1e-9 {
		t.Errorf("Expected elapsed 0.75, got %f", loop.Elapsed())
	}
}

func TestSubscribeNil(t *testing.T) {
	loop := New()
	if h := loop.Subscribe(nil); h != 0 {
		t.Errorf("Expected zero handle for nil callback, got %d", h)
	}
	if loop.SubscriberCount() != 0 {
		t.Errorf("Expected no subscribers, got %d", loop.SubscriberCount())
	}
}

func TestUnsubscribe(t *testing.T) {
	loop := New()
	calls := 0
	h := loop.Subscribe(func(float64) { calls++ })

	loop.Step(0.1)
	loop.Unsubscribe(h)
	loop.Step(0.1)

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if loop.IsSubscribed(h) {
		t.Error("Handle should not be subscribed after Unsubscribe")
	}

	// Unknown handles are ignored
	loop.Unsubscribe(h)
	loop.Unsubscribe(0)
}

func TestStepOrderIsSubscriptionOrder(t *testing.T) {
	loop := New()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		loop.Subscribe(func(float64) { order = append(order, i) })
	}

	loop.Step(0.016)

	for i, v := range order {
		if v != i {
			t.Fatalf("Subscribers called out of order: %v", order)
		}
	}
}

func TestUnsubscribeDuringStep(t *testing.T) {
	loop := New()
	var second Handle
	secondCalls := 0

	loop.Subscribe(func(float64) { loop.Unsubscribe(second) })
	second = loop.Subscribe(func(float64) { secondCalls++ })

	loop.Step(0.016)

	if secondCalls != 0 {
		t.Errorf("Subscriber removed earlier in the same step should not run, ran %d times", secondCalls)
	}
}

func TestSubscribeDuringStep(t *testing.T) {
	loop := New()
	lateCalls := 0
	subscribed := false

	loop.Subscribe(func(float64) {
		if !subscribed {
			subscribed = true
			loop.Subscribe(func(float64) { lateCalls++ })
		}
	})

	loop.Step(0.016)
	if lateCalls != 0 {
		t.Errorf("Subscriber added during a step should start on the next step, ran %d times", lateCalls)
	}

	loop.Step(0.016)
	if lateCalls != 1 {
		t.Errorf("Expected late subscriber to run once, ran %d times", lateCalls)
	}
}

func TestNegativeDeltaClamped(t *testing.T) {
	loop := New()
	var got float64 = -1
	loop.Subscribe(func(dt float64) { got = dt })

	loop.Step(-3)

	if got != 0 {
		t.Errorf("Expected negative delta clamped to 0, got %f", got)
	}
}
