package discovery

import (
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/grandcat/zeroconf"

	"github.com/todostudy/backend/internal/infrastructure/config"
	"github.com/todostudy/backend/internal/infrastructure/log"
)

const (
	// ServiceType mDNS 服务类型
	ServiceType = "_todos._tcp"
	// Domain mDNS 域
	Domain = "local."
	// Version 广播的 API 版本
	Version = "1.0"
)

// ServiceInfo 广播的服务信息
type ServiceInfo struct {
	InstanceName string
	Port         int
	TxtRecords   map[string]string
}

// registerFunc 便于测试替换 zeroconf.Register
type registerFunc func(instance, service, domain string, port int, text []string, ifaces []net.Interface) (*zeroconf.Server, error)

// MDNSAdvertiser mDNS 服务广播器
type MDNSAdvertiser struct {
	mu       sync.Mutex
	server   *zeroconf.Server
	info     *ServiceInfo
	running  bool
	register registerFunc
	logger   *slog.Logger
}

// NewMDNSAdvertiser 创建 mDNS 广播器
func NewMDNSAdvertiser() *MDNSAdvertiser {
	return &MDNSAdvertiser{
		register: zeroconf.Register,
		logger:   log.NewModuleLogger("discovery", "mdns_advertiser"),
	}
}

// Start 开始广播服务
func (a *MDNSAdvertiser) Start(info ServiceInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("advertiser is already running")
	}

	txtRecords := info.txt()
	a.logger.Info("starting mDNS advertiser",
		"instance", info.InstanceName,
		"port", info.Port,
		"txt_records", txtRecords,
	)

	server, err := a.register(info.InstanceName, ServiceType, Domain, info.Port, txtRecords, nil)
	if err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	a.server = server
	a.info = &info
	a.running = true
	return nil
}

// Stop 停止广播
func (a *MDNSAdvertiser) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return nil
	}

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	a.running = false
	a.info = nil

	a.logger.Info("mDNS advertiser stopped")
	return nil
}

// IsRunning 是否正在广播
func (a *MDNSAdvertiser) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// txt TXT 记录按 key 排序，保证输出稳定
func (info ServiceInfo) txt() []string {
	records := make([]string, 0, len(info.TxtRecords))
	for k, v := range info.TxtRecords {
		records = append(records, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(records)
	return records
}

// BuildServiceInfo 根据配置构建服务信息
func BuildServiceInfo(cfg *config.DiscoveryConfig, httpPort string) (ServiceInfo, error) {
	port, err := ParsePort(httpPort)
	if err != nil {
		return ServiceInfo{}, err
	}
	return ServiceInfo{
		InstanceName: cfg.InstanceName,
		Port:         port,
		TxtRecords: map[string]string{
			"version":   Version,
			"base_path": "/api/todos",
		},
	}, nil
}

// ParsePort 从 ":5000" 或 "host:5000" 中解析端口
func ParsePort(addr string) (int, error) {
	portStr := addr
	if idx := strings.LastIndex(addr, ":"); idx >= 0 {
		portStr = addr[idx+1:]
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port in address %q", addr)
	}
	return port, nil
}
