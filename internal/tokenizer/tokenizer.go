package tokenizer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoToken 表示分隔符紧邻重复（出现了空字段）
// 这是一个硬解析错误，不等价于空字符串字段
var ErrNoToken = errors.New("no token")

// Tokenizer 负责从一条带分隔符的文本记录中逐个提取字段
// 每个输入文件创建一个实例，分隔符随文件而不同
// 同时记录见过的最宽字段，供后续对齐展示使用
type Tokenizer struct {
	delimiter  byte
	fieldWidth int
}

// New 创建一个使用指定分隔符的 Tokenizer
func New(delimiter byte) *Tokenizer {
	return &Tokenizer{delimiter: delimiter}
}

// Delimiter 返回当前使用的分隔符
func (t *Tokenizer) Delimiter() byte {
	return t.delimiter
}

// FieldWidth 返回到目前为止提取过的最宽字段的长度
func (t *Tokenizer) FieldWidth() int {
	return t.fieldWidth
}

// ExtractToken 从 record 的 pos 位置开始提取下一个去除首尾空白的字段
// 游标 pos 被推进到下一个字段的起点
// 返回的 more 表示后面是否还有字段
// 如果分隔符紧邻出现（空字段），返回 ErrNoToken
func (t *Tokenizer) ExtractToken(record string, pos *int) (token string, more bool, err error) {
	if *pos >= len(record) {
		return "", false, nil
	}

	idx := strings.IndexByte(record[*pos:], t.delimiter)
	if idx < 0 {
		// 最后一个字段，消费到行尾
		token = record[*pos:]
		*pos = len(record)
		more = false
	} else {
		if idx == 0 {
			return "", false, fmt.Errorf("%w at position %d in record %q", ErrNoToken, *pos, record)
		}
		token = record[*pos : *pos+idx]
		*pos += idx + 1
		more = true
	}

	token = strings.TrimSpace(token)
	if len(token) > t.fieldWidth {
		t.fieldWidth = len(token)
	}
	return token, more, nil
}
