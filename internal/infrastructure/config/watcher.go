package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/todostudy/backend/internal/infrastructure/log"
)

// DefaultDebounceDelay 默认防抖延迟
const DefaultDebounceDelay = 300 * time.Millisecond

// ReloadFunc 配置重新加载回调
type ReloadFunc func(cfg *Config)

// Watcher 监听配置文件变化并重新加载
type Watcher struct {
	path     string
	delay    time.Duration
	onReload ReloadFunc
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	timerMu sync.Mutex
	timer   *time.Timer

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewWatcher 创建配置监听器
func NewWatcher(path string, delay time.Duration, onReload ReloadFunc) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &Watcher{
		path:     path,
		delay:    delay,
		onReload: onReload,
		watcher:  w,
		logger:   log.NewModuleLogger("config", "watcher"),
		stopCh:   make(chan struct{}),
	}, nil
}

// Start 开始监听
// 监听所在目录而不是文件本身，编辑器保存时常以重命名替换文件
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.logger.Info("Watching config file", "path", w.path)

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop 停止监听
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	w.wg.Wait()

	w.timerMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timerMu.Unlock()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	target := filepath.Clean(w.path)
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Config watcher error", "error", err)
		}
	}
}

// schedule 防抖：短时间内多次写入只触发一次加载
func (w *Watcher) schedule() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := LoadFile(w.path)
	if err != nil {
		w.logger.Warn("Failed to reload config", "path", w.path, "error", err)
		return
	}

	w.logger.Info("Config reloaded", "path", w.path)
	if w.onReload != nil {
		w.onReload(cfg)
	}
}
