package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// 请求体 schema：只约束结构与类型，必填与长度由领域规则校验
// null 与缺省等价，表示“不修改”；字段名区分大小写，其余键一律拒绝
const todoPayloadSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"title": {"type": ["string", "null"]},
		"completed": {"type": ["boolean", "null"]}
	},
	"additionalProperties": false
}`

var (
	// CreateTodo 创建待办请求 schema
	CreateTodo = jsonschema.MustCompileString("create_todo.json", todoPayloadSchema)
	// UpdateTodo 更新待办请求 schema
	UpdateTodo = jsonschema.MustCompileString("update_todo.json", todoPayloadSchema)
)

// Error 请求体校验失败
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Decode 校验原始 JSON 并解码到 out
// 空请求体视为 {}
func Decode(raw []byte, schema *jsonschema.Schema, out interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &Error{Message: "invalid JSON body"}
	}

	if err := schema.Validate(doc); err != nil {
		return &Error{Message: describe(err)}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return &Error{Message: "invalid JSON body"}
	}
	return nil
}

// describe 取最深层的第一个错误作为提示
func describe(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}

	field := strings.TrimPrefix(ve.InstanceLocation, "/")
	if field == "" {
		return fmt.Sprintf("request body: %s", ve.Message)
	}
	return fmt.Sprintf("%s: %s", field, ve.Message)
}
