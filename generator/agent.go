package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultMaxAttempts 是单次结构化调用允许的最大尝试次数（含首次）。
const DefaultMaxAttempts = 3

// Agent 负责把一段指令交给 LLM，并把输出解析、校验为 T。
// 校验失败时携带错误反馈重试，直到用尽尝试次数；传输错误直接返回。
type Agent[T any] struct {
	llm         LLMClient
	system      string
	schema      Schema
	maxAttempts int
	logger      *slog.Logger
}

type agentOptions struct {
	maxAttempts int
	logger      *slog.Logger
}

// AgentOption 调整 Agent 行为。
type AgentOption func(*agentOptions)

// WithMaxAttempts 设置尝试次数，小于 1 时忽略。
func WithMaxAttempts(n int) AgentOption {
	return func(o *agentOptions) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

func WithLogger(l *slog.Logger) AgentOption {
	return func(o *agentOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func NewAgent[T any](llm LLMClient, system string, schema Schema, opts ...AgentOption) (*Agent[T], error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if schema.Name == "" || schema.Definition == nil {
		return nil, errors.New("schema name and definition are required")
	}
	o := agentOptions{maxAttempts: DefaultMaxAttempts, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Agent[T]{
		llm:         llm,
		system:      buildSystemPrompt(system, schema),
		schema:      schema,
		maxAttempts: o.maxAttempts,
		logger:      o.logger,
	}, nil
}

// Run 发送用户指令并返回校验通过的结果。
func (a *Agent[T]) Run(ctx context.Context, user string) (T, error) {
	var zero T
	prompt := Prompt{System: a.system, User: user, Schema: &a.schema}

	var lastErr error
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		a.logger.DebugContext(ctx, "structured completion", "schema", a.schema.Name, "attempt", attempt)
		raw, err := a.llm.Complete(ctx, prompt)
		if err != nil && !errors.Is(err, ErrEmptyResponse) {
			return zero, fmt.Errorf("%s: %w", a.schema.Name, err)
		}
		if err == nil {
			var out T
			out, err = PostProcess[T](raw, a.schema)
			if err == nil {
				return out, nil
			}
		}
		lastErr = err
		a.logger.WarnContext(ctx, "structured output rejected",
			"schema", a.schema.Name,
			"attempt", attempt,
			"max_attempts", a.maxAttempts,
			"error", err,
		)
		prompt = prompt.withRetry(raw, err)
	}
	return zero, &ValidationError{Schema: a.schema.Name, Attempts: a.maxAttempts, Err: lastErr}
}

func buildSystemPrompt(system string, schema Schema) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(system))
	sb.WriteString("\n\n")
	sb.WriteString("只输出一个 JSON 对象，不要使用代码块，不要附加解释。JSON 必须符合以下 JSON Schema")
	if schema.Description != "" {
		sb.WriteString("（")
		sb.WriteString(schema.Description)
		sb.WriteString("）")
	}
	sb.WriteString("：\n")
	sb.WriteString(schema.JSON())
	return sb.String()
}

// Options 是上层组件构造 Agent 时共享的配置。
type Options struct {
	MaxAttempts int
	Logger      *slog.Logger
}

// AgentOptions 转换为 AgentOption 列表。
func (o Options) AgentOptions() []AgentOption {
	return []AgentOption{WithMaxAttempts(o.MaxAttempts), WithLogger(o.Logger)}
}

// Log 返回配置的 logger，未设置时使用 slog 默认 logger。
func (o Options) Log() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
