package generator

import (
	"context"
	"time"
)

// LLMClient 抽象大模型客户端，便于替换/Mock。
// Prompt.Schema 非空时，实现应尽量让模型输出符合该 Schema 的 JSON。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// ResponseFormat 决定结构化输出如何约束模型。
type ResponseFormat string

const (
	// FormatJSONObject 只要求模型输出 JSON 对象，Schema 通过系统提示词传达（DeepSeek 等兼容接口可用）。
	FormatJSONObject ResponseFormat = "json_object"
	// FormatJSONSchema 使用 strict json_schema 结构化输出。
	FormatJSONSchema ResponseFormat = "json_schema"
)

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider       string
	Model          string
	APIKey         string
	BaseURL        string
	ResponseFormat ResponseFormat
	Temperature    float64
	Timeout        time.Duration
	SDKRetries     int
}
