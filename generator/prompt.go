package generator

// Prompt 表示发送给 LLM 的消息集合。
// History 为 User 之前的对话轮次（校验失败重试时携带上一轮输出与错误）。
type Prompt struct {
	System  string
	User    string
	History []Message
	Schema  *Schema
}

// Message 用于少量历史（可选）。
type Message struct {
	Role    string
	Content string
}

// withRetry 把被拒绝的输出和校验错误追加进对话，返回新的 Prompt，原值不变。
func (p Prompt) withRetry(rejected string, cause error) Prompt {
	history := make([]Message, 0, len(p.History)+2)
	history = append(history, p.History...)
	history = append(history,
		Message{Role: "user", Content: p.User},
		Message{Role: "assistant", Content: rejected},
	)
	p.History = history
	p.User = "上一次的输出未通过校验：" + cause.Error() + "\n请修正后重新输出完整的 JSON 对象，不要附加任何解释。"
	return p
}
