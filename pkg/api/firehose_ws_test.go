package api_test

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rubiojr/quarry/pkg/core"
	"github.com/rubiojr/quarry/pkg/realtime"
)

func wsConnect(t *testing.T, ts *httptest.Server) (*websocket.Conn, map[string]any) {
	t.Helper()
	u, _ := url.Parse(ts.URL)
	u.Scheme = "ws"
	u.Path = "/api/firehose/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read init: %v", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal init: %v", err)
	}
	if msg["type"] != "init" {
		t.Fatalf("expected init message, got %v", msg["type"])
	}
	return conn, msg
}

// readNextOfType reads WS messages until we find the desired type or time out.
func readNextOfType(t *testing.T, conn *websocket.Conn, desired string, timeout time.Duration) map[string]any {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
			t.Fatalf("set read deadline: %v", err)
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read message: %v", err)
		}
		var msg map[string]any
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg["type"] == desired {
			return msg
		}
	}
	t.Fatalf("did not receive message type %s within timeout", desired)
	return nil
}

func TestFirehoseInitMessage(t *testing.T) {
	ts, store, _ := newTestServer(t)
	addDataset(t, store, "sql_dataset_1", core.SQLContent{Text: "SELECT 1;"})

	conn, initMsg := wsConnect(t, ts)
	defer func() { _ = conn.Close() }()

	if count, _ := initMsg["datasets"].(float64); int(count) != 1 {
		t.Errorf("Expected 1 dataset in init message, got %v", initMsg["datasets"])
	}
	if v, _ := initMsg["version"].(string); v == "" {
		t.Error("Expected a version in the init message")
	}
}

func TestFirehoseEventDelivery(t *testing.T) {
	ts, _, hub := newTestServer(t)

	conn, _ := wsConnect(t, ts)
	defer func() { _ = conn.Close() }()

	// The connection registers with the hub before sending init, so the
	// listener is in place once wsConnect returns.
	hub.Publish(realtime.NewDatasetEvent(realtime.EventAdded, "json_dataset_9", "json"))

	msg := readNextOfType(t, conn, "event", 3*time.Second)
	event, ok := msg["event"].(map[string]any)
	if !ok {
		t.Fatalf("expected event payload, got %v", msg["event"])
	}
	if event["type"] != realtime.EventAdded {
		t.Errorf("Expected added event, got %v", event["type"])
	}
	if event["name"] != "json_dataset_9" || event["kind"] != "json" {
		t.Errorf("Unexpected event payload: %v", event)
	}
	if id, _ := event["id"].(string); id == "" {
		t.Error("Expected a non-empty event id")
	}
}

func TestFirehoseMultipleClients(t *testing.T) {
	ts, _, hub := newTestServer(t)

	conn1, _ := wsConnect(t, ts)
	defer func() { _ = conn1.Close() }()
	conn2, _ := wsConnect(t, ts)
	defer func() { _ = conn2.Close() }()

	hub.Publish(realtime.NewDatasetEvent(realtime.EventReloaded, "", ""))

	for i, conn := range []*websocket.Conn{conn1, conn2} {
		msg := readNextOfType(t, conn, "event", 3*time.Second)
		event, _ := msg["event"].(map[string]any)
		if event["type"] != realtime.EventReloaded {
			t.Errorf("Client %d: expected reloaded event, got %v", i, event["type"])
		}
	}
}

func TestFirehoseClientDisconnect(t *testing.T) {
	ts, _, hub := newTestServer(t)

	conn, _ := wsConnect(t, ts)
	if err := conn.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// The server should unregister the listener once the read pump notices
	// the closed connection.
	deadline := time.Now().Add(3 * time.Second)
	for hub.Size() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.Size() != 0 {
		t.Errorf("Expected hub to drop disconnected listener, has %d", hub.Size())
	}

	// Publishing after disconnect must not panic or block.
	hub.Publish(realtime.NewDatasetEvent(realtime.EventAdded, "sql_dataset_1", "sql"))
}
