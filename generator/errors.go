package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation 表示模型在重试预算内没有给出符合 Schema 的输出。
	ErrValidation = errors.New("structured output validation failed")
	// ErrEmptyResponse 表示模型返回了空内容。
	ErrEmptyResponse = errors.New("model returned empty response")
)

// ValidationError 记录最后一次校验失败的原因。errors.Is(err, ErrValidation) 为真。
type ValidationError struct {
	Schema   string
	Attempts int
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d 次尝试后仍未得到合法输出: %v", e.Schema, e.Attempts, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
