// Package document 负责把章节拼成最终的 Markdown，并提供导出所需的 HTML、大纲与 front matter 工具。
package document

import (
	"fmt"
	"regexp"
	"strings"
)

// PlaceholderImage 是图片占位符使用的固定文件名。
const PlaceholderImage = "image-placeholder.jpg"

var placeholderRe = regexp.MustCompile(`!\[([^\]]*)\]\(` + regexp.QuoteMeta(PlaceholderImage) + `(?:\s+"[^"]*")?\)`)

// Head 生成文档头：一级标题，若有副标题则紧随其后以强调文本呈现。
func Head(title, subtitle string) string {
	head := "# " + title + "\n\n"
	if subtitle != "" {
		head += "*" + subtitle + "*\n\n"
	}
	return head
}

// Combine 把各章节正文按给定顺序以空行连接，放在文档头之后。
func Combine(title, subtitle string, bodies []string) string {
	return Head(title, subtitle) + strings.Join(bodies, "\n\n")
}

// ImagePlaceholder 按约定格式生成图片占位符。
func ImagePlaceholder(description string) string {
	return fmt.Sprintf("![%s](%s \"图片: %s\")", description, PlaceholderImage, description)
}

// Placeholders 按出现顺序返回正文中占位图片的描述。
func Placeholders(md string) []string {
	matches := placeholderRe.FindAllStringSubmatch(md, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}
