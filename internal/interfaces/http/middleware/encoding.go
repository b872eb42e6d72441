package middleware

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// DefaultLegacyEncodings 非 UTF-8 请求体依次尝试的编码
// Windows 终端下 curl 常以系统代码页（CP949 / GBK）发送请求体
var DefaultLegacyEncodings = []encoding.Encoding{
	korean.EUCKR,
	simplifiedchinese.GBK,
}

// EnsureUTF8Body 确保请求体是 UTF-8 编码的中间件
// 不是合法 UTF-8 时按 encodings 顺序尝试转换，全部失败则保留原始数据
func EnsureUTF8Body(encodings ...encoding.Encoding) gin.HandlerFunc {
	if len(encodings) == 0 {
		encodings = DefaultLegacyEncodings
	}

	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		bodyBytes, err := io.ReadAll(c.Request.Body)
		c.Request.Body.Close()
		if err != nil {
			c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			c.Next()
			return
		}

		if !utf8.Valid(bodyBytes) {
			if converted, ok := toUTF8(bodyBytes, encodings); ok {
				bodyBytes = converted
				c.Request.ContentLength = int64(len(bodyBytes))
			}
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		c.Next()
	}
}

// toUTF8 使用第一个能得到合法 UTF-8 的编码转换
func toUTF8(data []byte, encodings []encoding.Encoding) ([]byte, bool) {
	for _, enc := range encodings {
		reader := transform.NewReader(bytes.NewReader(data), enc.NewDecoder())
		converted, err := io.ReadAll(reader)
		if err != nil || !utf8.Valid(converted) {
			continue
		}
		return converted, true
	}
	return nil, false
}
