package document

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFrontMatter 文档不以 --- 开头。
	ErrMissingFrontMatter = errors.New("document: missing frontmatter")
	// ErrMalformedFrontMatter 找不到结束的 ---。
	ErrMalformedFrontMatter = errors.New("document: malformed frontmatter")
)

// WriteFrontMatter 把 meta 写成 --- 包裹的 YAML 头，后接正文。
func WriteFrontMatter(meta any, body []byte) ([]byte, error) {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("document: encode frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString("\n---\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// ParseFrontMatter 把 YAML 头解码到 meta，返回其后的正文。
func ParseFrontMatter(content []byte, meta any) ([]byte, error) {
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return nil, ErrMissingFrontMatter
	}
	parts := bytes.SplitN(normalized[4:], []byte("\n---\n"), 2)
	if len(parts) < 2 {
		return nil, ErrMalformedFrontMatter
	}
	if err := yaml.Unmarshal(parts[0], meta); err != nil {
		return nil, fmt.Errorf("document: parse frontmatter: %w", err)
	}
	return bytes.TrimPrefix(parts[1], []byte("\n")), nil
}
