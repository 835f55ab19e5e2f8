package writer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"ai_writer/document"
)

const plannerSystemPrompt = `你是一名文章策划。根据给定的主题和字数，为文章制定详细的规划。
每次都要说明你做出这份规划的理由。`

const writerSystemPrompt = `你是一名文章作者，根据给定的文章规划，用 Markdown 写出引人入胜、信息充实、结构清晰的内容。
每次都要说明你这样写的理由。

写作准则：
1. 表达清晰、简洁、有实质内容。
2. 使用恰当的专业术语，同时照顾目标读者的理解。
3. 在能帮助理解的地方建议配图或图表。
4. 需要时引用理论、方法或资料作为论据。
5. 适当加入案例分析来丰富内容。
6. 篇幅贴近规划中给出的字数。
7. 内容要有吸引力，对读者有价值。
8. 直接输出 Markdown：
   - 文章标题用 #
   - 章节标题用 ##
   - 子章节用 ###
   - 代码块标注语言
   - 图片占位符格式：` + "`" + `![图片描述](image-placeholder.jpg "图片: 描述")` + "`" + `
   - 合理使用 **粗体**、*斜体*、列表、引用等格式
9. 整个章节保持格式一致。`

var placeholderHint = "图片请使用占位符，格式为：" + document.ImagePlaceholder("图片描述")

func buildPlanPrompt(topic string, wordCount int) string {
	var sb strings.Builder
	sb.WriteString("请根据以下主题和字数制定一份详细的文章规划：\n\n")
	sb.WriteString(fmt.Sprintf("主题：%s\n", topic))
	sb.WriteString(fmt.Sprintf("字数：%d\n\n", wordCount))
	sb.WriteString("文章采用标准结构：引言、若干正文章节、结论。\n")
	sb.WriteString("为每个章节列出要涵盖的主题和要点，并给出大致字数。\n")
	sb.WriteString("引言、各章节与结论的字数之和应大致等于总字数。\n")
	sb.WriteString("保证行文逻辑连贯，适合技术、教育、政府、企业等领域的读者。")
	return sb.String()
}

func buildIntroductionPrompt(planJSON string, wordCount int) string {
	var sb strings.Builder
	sb.WriteString("请根据以下规划，用 Markdown 为文章写引言：\n")
	writeJSONBlock(&sb, planJSON)
	sb.WriteString("引言需要：\n")
	sb.WriteString("1. 用有吸引力的开头抓住读者\n")
	sb.WriteString("2. 交代主题的背景与上下文\n")
	sb.WriteString("3. 点明文章的目的或论点\n")
	sb.WriteString("4. 简要预告读者将了解的内容\n")
	sb.WriteString(fmt.Sprintf("5. 篇幅约 %d 字\n\n", wordCount))
	sb.WriteString("引言标题使用 ##。\n\n")
	sb.WriteString(placeholderHint)
	return sb.String()
}

func buildSectionPrompt(planJSON, sectionJSON string, wordCount int) string {
	var sb strings.Builder
	sb.WriteString("请根据以下规划，用 Markdown 写文章中的一个章节：\n")
	writeJSONBlock(&sb, planJSON)
	sb.WriteString("当前要写的章节是：\n")
	writeJSONBlock(&sb, sectionJSON)
	sb.WriteString("章节需要：\n")
	sb.WriteString("1. 与上一节自然衔接\n")
	sb.WriteString("2. 覆盖章节规划中列出的全部要点\n")
	sb.WriteString("3. 需要时使用子标题（### 表示子章节）\n")
	sb.WriteString("4. 包含示例、解释和见解\n")
	sb.WriteString(fmt.Sprintf("5. 篇幅约 %d 字\n\n", wordCount))
	sb.WriteString("章节标题使用 ##。\n\n")
	sb.WriteString(placeholderHint)
	sb.WriteString("\n\n对于示意图或图表，详细描述应当呈现的内容。")
	return sb.String()
}

func buildConclusionPrompt(planJSON string, wordCount int) string {
	var sb strings.Builder
	sb.WriteString("请根据以下规划，用 Markdown 为文章写结论：\n")
	writeJSONBlock(&sb, planJSON)
	sb.WriteString("结论需要：\n")
	sb.WriteString("1. 总结文中涉及的要点\n")
	sb.WriteString("2. 强化核心观点或论点\n")
	sb.WriteString("3. 给出最后的思考、启示或行动号召\n")
	sb.WriteString("4. 给读者留下思考空间\n")
	sb.WriteString(fmt.Sprintf("5. 篇幅约 %d 字\n\n", wordCount))
	sb.WriteString("结论标题使用 ##。\n\n")
	sb.WriteString(placeholderHint)
	return sb.String()
}

func writeJSONBlock(sb *strings.Builder, body string) {
	sb.WriteString("```json\n")
	sb.WriteString(body)
	sb.WriteString("\n```\n\n")
}

// toJSON 缩进序列化，不转义 HTML 字符，保持提示词可读。
func toJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
