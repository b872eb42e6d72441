//go:build integration
// +build integration

// 重启后数据仍在，且删除后的 ID 不会被复用

package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todostudy/backend/test/integration/framework"
)

func TestTodoPersistence_SurvivesRestart(t *testing.T) {
	framework.RequireDaemonBinary(t)

	first, err := framework.NewTestDaemon(framework.BinaryPath, "first")
	require.NoError(t, err)
	require.NoError(t, first.Start())

	client := framework.NewAPIClient(first.BaseURL())

	a, err := client.CreateTodo(map[string]interface{}{"title": "first"})
	require.NoError(t, err)
	b, err := client.CreateTodo(map[string]interface{}{"title": "second", "completed": true})
	require.NoError(t, err)

	_, err = client.DeleteTodo(b.Data.ID)
	require.NoError(t, err)

	// 保留数据目录重启
	require.NoError(t, first.StopWithCleanup(false))

	second, err := framework.NewTestDaemonWithConfig(framework.BinaryPath, "second", first.DataDir, first.HTTPPort)
	require.NoError(t, err)
	require.NoError(t, second.Start())
	defer second.Stop()

	list, err := client.ListTodos()
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, a.Data.ID, list.Data[0].ID)
	assert.Equal(t, "first", list.Data[0].Title)

	c, err := client.CreateTodo(map[string]interface{}{"title": "third"})
	require.NoError(t, err)
	require.Equal(t, 201, c.HTTPStatus)
	assert.Greater(t, c.Data.ID, b.Data.ID, "删除的 ID 不应被复用")
}
