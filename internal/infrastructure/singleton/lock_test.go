package singleton

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAndLock_PortAvailable(t *testing.T) {
	// 使用随机可用端口
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	listener.Close()

	result, err := CheckAndLock(addr)
	require.NoError(t, err)
	require.NotNil(t, result)
	defer result.Close()
}

func TestCheckAndLock_PortInUse_HealthyInstance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == HealthPath {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	addr := strings.TrimPrefix(server.URL, "http://")
	result, err := CheckAndLock(addr)
	require.NoError(t, err)
	assert.Nil(t, result, "已有健康实例时应返回 nil listener")
}

func TestCheckAndLock_PortInUse_UnhealthyInstance(t *testing.T) {
	// 监听端口但不提供健康检查
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	result, err := CheckAndLock(listener.Addr().String())
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "health check failed")
}

func TestIsAddrInUse(t *testing.T) {
	l1, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l1.Close()

	_, err = net.Listen("tcp", l1.Addr().String())
	assert.True(t, isAddrInUse(err), "应该检测到地址已在使用")

	_, err = net.Listen("tcp", "invalid")
	assert.False(t, isAddrInUse(err), "不应该检测为地址已在使用")

	assert.False(t, isAddrInUse(nil))
}

func TestHealthURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":5000", "http://127.0.0.1:5000/health"},
		{"0.0.0.0:5000", "http://127.0.0.1:5000/health"},
		{"[::]:5000", "http://127.0.0.1:5000/health"},
		{"localhost:8080", "http://localhost:8080/health"},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			got, err := healthURL(tt.addr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := healthURL("no-port")
	assert.Error(t, err)
}

func TestIsInstanceRunning_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	assert.False(t, isInstanceRunning(strings.TrimPrefix(server.URL, "http://")), "非200状态码不应视为实例健康")
	assert.False(t, isInstanceRunning(":99999"))
}
