package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForCount(t *testing.T, h *Hub, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return h.SubscriberCount() == want
	}, time.Second, 5*time.Millisecond)
}

func TestHub_BroadcastToAllSubscribers(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	a, b := NewConnection(), NewConnection()
	require.NoError(t, hub.Register(a))
	require.NoError(t, hub.Register(b))
	waitForCount(t, hub, 2)

	require.NoError(t, hub.Broadcast(map[string]string{"type": "todo.created"}))

	for _, conn := range []*Connection{a, b} {
		select {
		case data := <-conn.Send:
			var msg map[string]string
			require.NoError(t, json.Unmarshal(data, &msg))
			assert.Equal(t, "todo.created", msg["type"])
		case <-time.After(time.Second):
			t.Fatal("expected broadcast message")
		}
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	conn := NewConnection()
	require.NoError(t, hub.Register(conn))
	waitForCount(t, hub, 1)

	hub.Unregister(conn)
	waitForCount(t, hub, 0)

	_, ok := <-conn.Send
	assert.False(t, ok, "注销后 Send 应被关闭")

	// 重复注销不应 panic
	hub.Unregister(conn)
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	slow := &Connection{Send: make(chan []byte)} // 无缓冲且无人读取
	require.NoError(t, hub.Register(slow))
	waitForCount(t, hub, 1)

	require.NoError(t, hub.Broadcast("x"))
	waitForCount(t, hub, 0)
}

func TestHub_StopClosesConnections(t *testing.T) {
	hub := NewHub()
	hub.Start()

	conn := NewConnection()
	require.NoError(t, hub.Register(conn))
	waitForCount(t, hub, 1)

	hub.Stop()
	hub.Stop()

	select {
	case _, ok := <-conn.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected connection to be closed")
	}

	assert.ErrorIs(t, hub.Broadcast("x"), ErrHubClosed)
	assert.ErrorIs(t, hub.Register(NewConnection()), ErrHubClosed)
}

func TestHub_NotStartedDoesNotBlock(t *testing.T) {
	hub := NewHub()

	errCh := make(chan error, 2)
	go func() {
		errCh <- hub.Broadcast(map[string]string{"type": "todo.created"})
		errCh <- hub.Register(NewConnection())
	}()

	for i := 0; i < 2; i++ {
		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, ErrHubNotStarted)
		case <-time.After(time.Second):
			t.Fatal("未启动的 Hub 不应阻塞调用方")
		}
	}

	// 未启动时注销是空操作
	hub.Unregister(NewConnection())

	hub.Start()
	defer hub.Stop()
	require.NoError(t, hub.Broadcast("x"))
}
