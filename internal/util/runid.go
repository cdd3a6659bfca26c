package util

import (
	"crypto/rand"
	"encoding/hex"
)

// NewRunID 生成一个随机的、唯一的运行 ID
// 每次仿真运行一个，打在归档记录和日志上，便于事后按运行检索
func NewRunID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// 在极少数情况下，如果随机数生成失败，返回一个固定的错误字符串
		return "failed-to-generate-run-id"
	}
	return hex.EncodeToString(bytes)
}
