package api

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/offerdeck/offerdeck/pkg/livefeed"
)

func TestLiveFeedPush(t *testing.T) {
	fake := &fakeService{}
	web, _, hub := setupServer(t, fake)

	u, err := url.Parse(web.URL)
	if err != nil {
		t.Fatal(err)
	}
	u.Scheme = "ws"
	u.Path = "/api/live"

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dialing live feed: %v", err)
	}
	defer func() { _ = conn.Close() }()

	// Wait for the listener to register before broadcasting.
	deadline := time.Now().Add(3 * time.Second)
	for hub.Size() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("websocket listener never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Broadcast(livefeed.Event{Type: livefeed.TypeRefresh, TotalDocs: 5})

	if err := conn.SetReadDeadline(time.Now().Add(3 * time.Second)); err != nil {
		t.Fatal(err)
	}
	var ev livefeed.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	if ev.Type != livefeed.TypeRefresh || ev.TotalDocs != 5 {
		t.Errorf("event = %+v", ev)
	}
}

func TestLiveFeedListenerCleanup(t *testing.T) {
	fake := &fakeService{}
	web, _, hub := setupServer(t, fake)

	wsURL := "ws" + strings.TrimPrefix(web.URL, "http") + "/api/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing live feed: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for hub.Size() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("websocket listener never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	_ = conn.Close()

	deadline = time.Now().Add(3 * time.Second)
	for hub.Size() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("listener not unregistered after close, size=%d", hub.Size())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
