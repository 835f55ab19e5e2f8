package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
// 有 Schema 时按 Schema 合成一份合法 JSON；否则把用户输入拼接成 Markdown。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	if prompt.Schema != nil {
		b, err := json.Marshal(synthesize(prompt.Schema.Definition, prompt.Schema.Name))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	var sb strings.Builder
	sb.WriteString("# 自动生成示例标题\n\n")
	sb.WriteString("根据提示生成的内容：\n\n")
	sb.WriteString("```\n")
	sb.WriteString(prompt.User)
	sb.WriteString("\n```\n")
	return sb.String(), nil
}

func synthesize(schema map[string]any, name string) any {
	if schema == nil {
		return nil
	}
	if enum, ok := schema["enum"].([]any); ok && len(enum) > 0 {
		return enum[0]
	}
	switch schemaType(schema) {
	case "object":
		props, _ := schema["properties"].(map[string]any)
		obj := make(map[string]any, len(props))
		for _, key := range requiredNames(schema) {
			ps, _ := props[key].(map[string]any)
			obj[key] = synthesize(ps, key)
		}
		return obj
	case "array":
		items, _ := schema["items"].(map[string]any)
		return []any{synthesize(items, name)}
	case "integer":
		return 100
	case "number":
		return 1.0
	case "boolean":
		return false
	default:
		if strings.Contains(name, "markdown") {
			return "## 示例章节\n\n这是本地模拟模型生成的段落。\n\n![示意图](image-placeholder.jpg \"图片: 示意图\")"
		}
		return "示例" + name
	}
}

// ScriptedLLM 按调用顺序返回预设响应，并记录收到的 Prompt，供测试使用。
// Respond 非空时优先使用。
type ScriptedLLM struct {
	Responses []string
	Errors    []error
	Respond   func(call int, prompt Prompt) (string, error)

	mu      sync.Mutex
	prompts []Prompt
}

func (s *ScriptedLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	call := len(s.prompts)
	s.prompts = append(s.prompts, prompt)

	if s.Respond != nil {
		return s.Respond(call, prompt)
	}
	if call < len(s.Errors) && s.Errors[call] != nil {
		return "", s.Errors[call]
	}
	if call >= len(s.Responses) {
		return "", fmt.Errorf("scripted llm: no response for call %d", call+1)
	}
	return s.Responses[call], nil
}

// Prompts 返回已收到的 Prompt 副本。
func (s *ScriptedLLM) Prompts() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Prompt, len(s.prompts))
	copy(out, s.prompts)
	return out
}

func (s *ScriptedLLM) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}
