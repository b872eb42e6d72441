package wire

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appTodo "github.com/todostudy/backend/internal/application/todo"
	"github.com/todostudy/backend/internal/infrastructure/config"
	"github.com/todostudy/backend/internal/infrastructure/discovery"
	applog "github.com/todostudy/backend/internal/infrastructure/log"
	"github.com/todostudy/backend/internal/infrastructure/notification"
	"github.com/todostudy/backend/internal/infrastructure/storage"
	"github.com/todostudy/backend/internal/infrastructure/websocket"
	httpiface "github.com/todostudy/backend/internal/interfaces/http"
	"github.com/todostudy/backend/internal/interfaces/http/handler"
	"github.com/todostudy/backend/internal/interfaces/mcp"
)

// newTestApp 按 wire_gen 的顺序手工组装应用
func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()

	db, err := storage.OpenDB(filepath.Join(t.TempDir(), "todos.db"))
	require.NoError(t, err)
	require.NoError(t, storage.InitSchema(context.Background(), db))
	t.Cleanup(func() { db.Close() })

	hub := websocket.NewHub()
	manager := appTodo.NewManager(storage.NewTodoStore(db, &cfg.Database), notification.NewWebSocketPublisher(hub))
	mcpServer := mcp.NewServer(manager)
	httpServer := httpiface.NewServer(&cfg.Server, handler.NewTodoHandler(manager), handler.NewEventsHandler(hub), mcpServer)

	return NewApp(cfg, &cfg.Discovery, httpServer, mcpServer, hub, discovery.NewMDNSAdvertiser())
}

func TestApp_StartStop(t *testing.T) {
	cfg := config.NewConfig()
	app := newTestApp(t, cfg)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	app.UseListener(ln)

	require.NoError(t, app.Start())

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, app.Stop())
	// 重复 Stop 无副作用
	require.NoError(t, app.Stop())

	select {
	case err := <-app.Errors():
		t.Fatalf("unexpected server error: %v", err)
	default:
	}
}

func TestApp_ConfigReloadAppliesLogLevel(t *testing.T) {
	defer applog.SetLevel("info")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	app := newTestApp(t, cfg)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	app.UseListener(ln)

	require.NoError(t, app.Start())
	defer app.Stop()

	assert.False(t, applog.IsDebugMode())

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	assert.Eventually(t, applog.IsDebugMode, 3*time.Second, 50*time.Millisecond)
}

func TestApp_StartFailureStopsHub(t *testing.T) {
	// 占用端口，让 Start 内部的 Listen 失败
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	cfg := config.NewConfig()
	cfg.Server.HTTPPort = busy.Addr().String()
	app := newTestApp(t, cfg)

	require.Error(t, app.Start())

	assert.ErrorIs(t, app.wsHub.Register(websocket.NewConnection()), websocket.ErrHubClosed)
	assert.ErrorIs(t, app.wsHub.Broadcast(map[string]string{"type": "todo.created"}), websocket.ErrHubClosed)
}
