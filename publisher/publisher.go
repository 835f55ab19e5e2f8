// Package publisher 把生成结果导出到本地目录：带 front matter 的 Markdown、HTML 页面和结构化 JSON。
package publisher

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai_writer/document"
	"ai_writer/store"
)

const DefaultDir = "output"

// FrontMatter 写在导出的 Markdown 顶部。
type FrontMatter struct {
	ID       string             `yaml:"id"`
	Kind     store.Kind         `yaml:"kind"`
	Title    string             `yaml:"title"`
	Subtitle string             `yaml:"subtitle,omitempty"`
	Digest   string             `yaml:"digest,omitempty"`
	Created  time.Time          `yaml:"created"`
	Headings []document.Heading `yaml:"headings,omitempty"`
}

// Files 是一次导出写出的文件路径。
type Files struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
	Data     string `json:"data"`
}

type Publisher struct {
	dir    string
	logger *slog.Logger
}

func New(dir string, logger *slog.Logger) *Publisher {
	if dir == "" {
		dir = DefaultDir
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{dir: dir, logger: logger}
}

func (p *Publisher) Dir() string { return p.dir }

// Publish 写出 <id>.md、<id>.html、<id>.json。
func (p *Publisher) Publish(rec store.Record) (Files, error) {
	if rec.ID == "" {
		return Files{}, errors.New("record id required")
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("create output dir: %w", err)
	}
	files := Files{
		Markdown: filepath.Join(p.dir, rec.ID+".md"),
		HTML:     filepath.Join(p.dir, rec.ID+".html"),
		Data:     filepath.Join(p.dir, rec.ID+".json"),
	}

	meta := FrontMatter{
		ID:       rec.ID,
		Kind:     rec.Kind,
		Title:    rec.Title,
		Subtitle: rec.Subtitle,
		Digest:   defaultDigest(stripHead(rec.Markdown), 120),
		Created:  rec.CreatedAt,
		Headings: document.Outline(rec.Markdown),
	}
	mdBytes, err := document.WriteFrontMatter(meta, []byte(rec.Markdown))
	if err != nil {
		return Files{}, err
	}
	if err := os.WriteFile(files.Markdown, mdBytes, 0o644); err != nil {
		return Files{}, err
	}

	page, err := RenderHTML(rec)
	if err != nil {
		return Files{}, err
	}
	if err := os.WriteFile(files.HTML, []byte(page), 0o644); err != nil {
		return Files{}, err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Files{}, err
	}
	if err := os.WriteFile(files.Data, data, 0o644); err != nil {
		return Files{}, err
	}

	p.logger.Info("result published", "id", rec.ID, "kind", rec.Kind, "dir", p.dir)
	return files, nil
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{max-width:760px;margin:2em auto;padding:0 1em;font-family:-apple-system,"PingFang SC","Microsoft YaHei",sans-serif;line-height:1.75;color:#222}
figure.image-placeholder{margin:1.5em 0;padding:2.5em 1em;border:1px dashed #bbb;background:#fafafa;text-align:center;color:#888}
pre{background:#f6f8fa;padding:1em;overflow:auto}
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// RenderHTML 把记录的 Markdown 渲染成完整的 HTML 页面。
func RenderHTML(rec store.Record) (string, error) {
	body, err := document.ToHTML(rec.Markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	var buf bytes.Buffer
	err = pageTmpl.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{Title: rec.Title, Body: template.HTML(body)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// stripHead 去掉开头的一级标题和斜体副标题，摘要只取正文。
func stripHead(md string) string {
	lines := strings.Split(md, "\n")
	i := 0
	for i < len(lines) {
		l := strings.TrimSpace(lines[i])
		if l == "" || strings.HasPrefix(l, "# ") || (strings.HasPrefix(l, "*") && strings.HasSuffix(l, "*") && !strings.HasPrefix(l, "**")) {
			i++
			continue
		}
		break
	}
	return strings.Join(lines[i:], "\n")
}

func defaultDigest(md string, limit int) string {
	joined := strings.Join(strings.Fields(md), " ")
	runes := []rune(joined)
	if len(runes) <= limit {
		return joined
	}
	return string(runes[:limit])
}
