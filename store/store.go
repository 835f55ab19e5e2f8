// Package store 保存每次生成的结果，供之后按 ID 查询、导出。
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Kind 区分结果来自写作还是总结。
type Kind string

const (
	KindArticle Kind = "article"
	KindSummary Kind = "summary"
)

var ErrNotFound = errors.New("result not found")

// Record 是一次生成的完整结果。Data 为对应变体的结构化数据（规划 + 全部章节）。
type Record struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	Input     string          `json:"input"`
	WordCount int             `json:"word_count,omitempty"`
	Title     string          `json:"title"`
	Subtitle  string          `json:"subtitle,omitempty"`
	Markdown  string          `json:"markdown"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
}

func NewID() string {
	return uuid.NewString()
}

// NewRecord 填好 ID 和创建时间，并把 data 序列化进 Data。
func NewRecord(kind Kind, input string, data any) (Record, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Record{}, err
	}
	return Record{
		ID:        NewID(),
		Kind:      kind,
		Input:     input,
		Data:      raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}
