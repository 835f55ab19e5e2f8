package summary

import (
	"bytes"
	"encoding/json"
	"strings"

	"ai_writer/document"
)

const plannerSystemPrompt = `你是一名文章分析与总结专家，根据给定的文章内容制定一份详细的 PPT 总结规划。
每次都要说明你做出这份规划的理由。`

const summarySystemPrompt = `你是一名文章分析与总结专家，需要把给定文章总结成可直接用于 PPT 的内容。
根据总结规划，用 Markdown 写出信息充实、结构清晰、层次分明的总结。
每次都要说明你这样写的理由。

写作准则：
1. 总结清晰、简洁、有实质内容。
2. 使用恰当的专业术语，同时照顾目标读者的理解。
3. 在能帮助理解的地方建议配图或图表。
4. 需要时引用理论、方法或资料作为论据。
5. 适当加入案例分析来丰富总结。
6. 内容要有吸引力，对读者有价值。
7. 直接输出 Markdown：
   - 标题用 #
   - 章节标题用 ##
   - 子章节用 ###
   - 代码块标注语言
   - 图片占位符格式：` + "`" + `![图片描述](image-placeholder.jpg "图片: 描述")` + "`" + `
   - 合理使用 **粗体**、*斜体*、列表、引用等格式
8. 格式前后一致，分层表达，适合 PPT 展示。`

var placeholderHint = "图片请使用占位符，格式为：" + document.ImagePlaceholder("图片描述")

func buildPlanPrompt(content string) string {
	var sb strings.Builder
	sb.WriteString("请根据以下文章内容制定一份详细的 PPT 总结规划：\n\n")
	sb.WriteString("内容：")
	sb.WriteString(content)
	sb.WriteString("\n\n")
	sb.WriteString("总结采用标准的 PPT 结构，覆盖文章中的主要观点。\n")
	sb.WriteString("保证总结的脉络合乎逻辑，可直接用于制作 PPT。")
	return sb.String()
}

func buildSectionPrompt(planJSON, sectionJSON string) string {
	var sb strings.Builder
	sb.WriteString("请根据以下规划，用 Markdown 写出文章某一章节的主要观点：\n")
	writeJSONBlock(&sb, planJSON)
	sb.WriteString("当前要写的章节是：\n")
	writeJSONBlock(&sb, sectionJSON)
	sb.WriteString("章节观点需要：\n")
	sb.WriteString("1. 与上一节自然衔接\n")
	sb.WriteString("2. 覆盖章节规划中列出的全部要点\n")
	sb.WriteString("3. 需要时使用子标题（### 表示子章节）\n")
	sb.WriteString("4. 包含示例、解释和见解\n\n")
	sb.WriteString("章节标题使用 ##。\n\n")
	sb.WriteString(placeholderHint)
	sb.WriteString("\n\n对于示意图或图表，详细描述应当呈现的内容。")
	return sb.String()
}

func buildConclusionPrompt(planJSON string) string {
	var sb strings.Builder
	sb.WriteString("请根据以下规划，用 Markdown 为这篇文章的总结写结论：\n")
	writeJSONBlock(&sb, planJSON)
	sb.WriteString("结论需要：\n")
	sb.WriteString("1. 总结文中涉及的要点\n")
	sb.WriteString("2. 强化核心观点或论点\n")
	sb.WriteString("3. 给出最后的思考、启示或行动号召\n")
	sb.WriteString("4. 给读者留下思考空间\n\n")
	sb.WriteString("结论标题使用 ##。\n\n")
	sb.WriteString(placeholderHint)
	return sb.String()
}

func writeJSONBlock(sb *strings.Builder, body string) {
	sb.WriteString("```json\n")
	sb.WriteString(body)
	sb.WriteString("\n```\n\n")
}

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
