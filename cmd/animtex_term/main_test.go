package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

// TestPollEventsStopsAfterFini 测试屏幕 Fini 后事件转发协程退出并关闭通道
func TestPollEventsStopsAfterFini(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	events := make(chan tcell.Event, 10)
	go pollEvents(screen, events)

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case ev := <-events:
		key, ok := ev.(*tcell.EventKey)
		if !ok || key.Rune() != 'q' {
			t.Errorf("Expected key 'q', got %#v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Injected key was not forwarded")
	}

	screen.Fini()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev == nil {
				t.Fatal("nil event should not be forwarded")
			}
		case <-timeout:
			t.Fatal("Event channel was not closed after Fini")
		}
	}
}
