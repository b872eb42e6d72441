package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func TestDecode_Valid(t *testing.T) {
	var p payload
	require.NoError(t, Decode([]byte(`{"title":"buy milk","completed":true}`), CreateTodo, &p))
	require.NotNil(t, p.Title)
	assert.Equal(t, "buy milk", *p.Title)
	require.NotNil(t, p.Completed)
	assert.True(t, *p.Completed)
}

func TestDecode_EmptyBodyIsEmptyObject(t *testing.T) {
	var p payload
	require.NoError(t, Decode([]byte("  "), UpdateTodo, &p))
	assert.Nil(t, p.Title)
	assert.Nil(t, p.Completed)
}

func TestDecode_NullMeansAbsent(t *testing.T) {
	var p payload
	require.NoError(t, Decode([]byte(`{"title":null,"completed":null}`), UpdateTodo, &p))
	assert.Nil(t, p.Title)
	assert.Nil(t, p.Completed)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		contains string
	}{
		{"非法 JSON", `{"title":`, "invalid JSON body"},
		{"非对象", `["buy milk"]`, "request body"},
		{"completed 类型错误", `{"title":"a","completed":"yes"}`, "completed"},
		{"title 类型错误", `{"title":42}`, "title"},
		{"未知字段", `{"title":"a","titel":"b"}`, "titel"},
		{"字段名大小写不符", `{"TITLE":"x"}`, "TITLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			err := Decode([]byte(tt.body), CreateTodo, &p)
			require.Error(t, err)

			var ve *Error
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Message, tt.contains)
		})
	}
}

func TestDecode_UpdateRejectsUnknownFields(t *testing.T) {
	var p payload
	err := Decode([]byte(`{"Completed":true}`), UpdateTodo, &p)
	require.Error(t, err)
	assert.Nil(t, p.Completed)

	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "Completed")
}
