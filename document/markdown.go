package document

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Heading 是文档中的一个标题。
type Heading struct {
	Level int    `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
}

// Outline 解析 Markdown 并按顺序返回所有标题（代码块中的 # 不计入）。
func Outline(markdown string) []Heading {
	src := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(src))
	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			headings = append(headings, Heading{Level: h.Level, Text: nodeText(h, src)})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return headings
}

// CountHeadings 统计指定级别的标题数量。
func CountHeadings(headings []Heading, level int) int {
	n := 0
	for _, h := range headings {
		if h.Level == level {
			n++
		}
	}
	return n
}

func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(nodeText(c, src))
		}
	}
	return strings.TrimSpace(b.String())
}

// ToHTML 把 Markdown 转成 HTML，并把占位图片替换为带说明的 figure。
func ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("document: render html: %w", err)
	}
	return replacePlaceholderImages(buf.String()), nil
}

var imgTagRe = regexp.MustCompile(`<img src="` + regexp.QuoteMeta(PlaceholderImage) + `" alt="([^"]*)"(?: title="[^"]*")?\s*/?>`)

// 占位图片没有真实文件，导出时以描述文字代替。
func replacePlaceholderImages(htmlText string) string {
	return imgTagRe.ReplaceAllStringFunc(htmlText, func(tag string) string {
		m := imgTagRe.FindStringSubmatch(tag)
		if len(m) != 2 {
			return tag
		}
		desc := html.UnescapeString(m[1])
		return fmt.Sprintf(`<figure class="image-placeholder"><figcaption>图片: %s</figcaption></figure>`, html.EscapeString(desc))
	})
}
