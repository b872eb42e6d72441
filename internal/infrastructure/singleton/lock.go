package singleton

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"
)

const (
	// HealthPath 健康检查路径
	HealthPath = "/health"
	// HealthCheckTimeout 健康检查超时时间
	HealthCheckTimeout = 2 * time.Second
)

// CheckAndLock 检查端口是否被占用，如果被占用则检查是否有实例在运行
// 端口可用时返回 listener；已有健康实例时返回 nil, nil（调用者应退出）；
// 端口被占用但实例不健康时返回错误
func CheckAndLock(addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err == nil {
		return listener, nil
	}

	if isAddrInUse(err) {
		if isInstanceRunning(addr) {
			return nil, nil
		}
		return nil, fmt.Errorf("port %s is in use but health check failed", addr)
	}

	return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
}

// isAddrInUse 检查错误是否是地址已在使用
func isAddrInUse(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}

	// Windows: WSAEADDRINUSE (10048)
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == 10048
	}
	return false
}

// isInstanceRunning 检查是否有实例在运行
func isInstanceRunning(addr string) bool {
	url, err := healthURL(addr)
	if err != nil {
		return false
	}

	client := &http.Client{
		Timeout: HealthCheckTimeout,
	}
	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// healthURL 根据监听地址构建本机健康检查地址
func healthURL(addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", err
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s%s", net.JoinHostPort(host, port), HealthPath), nil
}
