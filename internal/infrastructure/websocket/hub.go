package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrHubClosed Hub 已停止
	ErrHubClosed = errors.New("websocket hub closed")
	// ErrHubNotStarted Hub 尚未 Start，没有协程接收消息
	ErrHubNotStarted = errors.New("websocket hub not started")
)

// DefaultSendBuffer 每个连接的发送缓冲
const DefaultSendBuffer = 64

// Hub WebSocket 连接管理中心，向所有订阅者广播消息
// 连接集合只在 Run 协程中修改
type Hub struct {
	conns      map[*Connection]bool
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte
	done       chan struct{}

	mu        sync.RWMutex
	count     int
	started   atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once
}

// Connection 订阅连接，Send 被 Hub 关闭时表示连接已移除
type Connection struct {
	Send chan []byte
}

// NewConnection 创建连接
func NewConnection() *Connection {
	return &Connection{Send: make(chan []byte, DefaultSendBuffer)}
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{
		conns:      make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte),
		done:       make(chan struct{}),
	}
}

// Run 运行 Hub（需要在 goroutine 中运行）
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for conn := range h.conns {
				h.remove(conn)
			}
			return

		case conn := <-h.register:
			h.conns[conn] = true
			h.setCount(len(h.conns))

		case conn := <-h.unregister:
			h.remove(conn)

		case data := <-h.broadcast:
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// 订阅者消费过慢，直接断开
					h.remove(conn)
				}
			}
		}
	}
}

func (h *Hub) remove(conn *Connection) {
	if _, ok := h.conns[conn]; !ok {
		return
	}
	delete(h.conns, conn)
	close(conn.Send)
	h.setCount(len(h.conns))
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}

// Start 启动 Hub（启动后台 goroutine）
func (h *Hub) Start() {
	h.startOnce.Do(func() {
		h.started.Store(true)
		go h.Run()
	})
}

// Stop 停止 Hub 并关闭所有连接
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

// ready 检查 Hub 是否可以接收消息
// 已停止优先于未启动
func (h *Hub) ready() error {
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}
	if !h.started.Load() {
		return ErrHubNotStarted
	}
	return nil
}

// Register 注册连接
func (h *Hub) Register(conn *Connection) error {
	if err := h.ready(); err != nil {
		return err
	}
	select {
	case h.register <- conn:
		return nil
	case <-h.done:
		return ErrHubClosed
	}
}

// Unregister 注销连接
func (h *Hub) Unregister(conn *Connection) {
	if h.ready() != nil {
		return
	}
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Broadcast 向所有订阅者广播消息
func (h *Hub) Broadcast(data interface{}) error {
	if err := h.ready(); err != nil {
		return err
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- jsonData:
		return nil
	case <-h.done:
		return ErrHubClosed
	}
}

// SubscriberCount 当前订阅者数量
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}
