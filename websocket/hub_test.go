package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sekarnet/utils"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
)

func TestRecipientFilter(t *testing.T) {
	alice := &Client{UserID: 2, Role: "customer"}
	budi := &Client{UserID: 5, Role: "technician"}

	cases := []struct {
		recipient string
		alice     bool
		budi      bool
	}{
		{"all", true, true},
		{"user:2", true, false},
		{"role:technician", false, true},
	}
	for _, tc := range cases {
		match, err := recipientFilter(tc.recipient)
		if err != nil {
			t.Fatalf("%s: %v", tc.recipient, err)
		}
		if match(alice) != tc.alice || match(budi) != tc.budi {
			t.Fatalf("%s: unexpected match", tc.recipient)
		}
	}
	for _, bad := range []string{"", "user:x", "group:1"} {
		if _, err := recipientFilter(bad); err == nil {
			t.Fatalf("%q: expected an error", bad)
		}
	}
}

func readFrame(t *testing.T, conn *gws.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return m
}

func TestHubDelivery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	app := gin.New()
	app.GET("/ws", Handler(hub, jwtManager))
	srv := httptest.NewServer(app)
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	if _, resp, err := gws.DefaultDialer.Dial(base, nil); err == nil || resp == nil || resp.StatusCode != 401 {
		t.Fatalf("expected 401 without a token, got %v", err)
	}

	token, _ := jwtManager.GenerateToken(2, "alice", "customer")
	conn, _, err := gws.DefaultDialer.Dial(base+"?token="+token, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if m := readFrame(t, conn); m.Type != "connection_established" {
		t.Fatalf("expected a welcome frame, got %+v", m)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectedCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := hub.Publish("role:technician", &Message{Type: "notification", Data: "not for alice"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := hub.Publish("user:2", &Message{Type: "payment_reminder", Data: map[string]interface{}{"billId": 1}}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	m := readFrame(t, conn)
	if m.Type != "payment_reminder" || m.Timestamp == 0 {
		t.Fatalf("unexpected frame %+v", m)
	}

	if err := conn.WriteJSON(Message{Type: "ping"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if m := readFrame(t, conn); m.Type != "pong" {
		t.Fatalf("expected pong, got %+v", m)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.ConnectedCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never unregistered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
