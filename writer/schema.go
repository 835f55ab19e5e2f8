package writer

import "ai_writer/generator"

func reasoningSchema(description string) map[string]any {
	return generator.ObjectSchema(description,
		generator.Prop("description", generator.StringSchema("推理原因。")),
	)
}

func planSchema() generator.Schema {
	section := generator.ObjectSchema("大纲中的一个章节。",
		generator.Prop("title", generator.StringSchema("章节标题。")),
		generator.Prop("items", generator.StringArraySchema("本章节要涵盖的主题和要点。")),
		generator.Prop("word_count", generator.IntegerSchema("本章节的大致字数。")),
	)
	outline := generator.ObjectSchema("文章大纲。",
		generator.Prop("title", generator.StringSchema("文章标题。")),
		generator.Prop("subtitle", generator.NullableStringSchema("文章副标题，没有时为 null。")),
		generator.Prop("introduction_word_count", generator.IntegerSchema("引言的大致字数。")),
		generator.Prop("conclusion_word_count", generator.IntegerSchema("结论的大致字数。")),
		generator.Prop("sections", generator.ArraySchema("正文章节列表，按顺序排列。", section)),
	)
	return generator.Schema{
		Name:        "article_plan",
		Description: "文章规划",
		Definition: generator.ObjectSchema("",
			generator.Prop("reasoning", reasoningSchema("规划背后的理由。")),
			generator.Prop("outline", outline),
		),
	}
}

func sectionSchema() generator.Schema {
	return generator.Schema{
		Name:        "article_section",
		Description: "文章章节",
		Definition: generator.ObjectSchema("",
			generator.Prop("reasoning", reasoningSchema("章节内容背后的理由。")),
			generator.Prop("title", generator.StringSchema("章节标题。")),
			generator.Prop("markdown_content", generator.StringSchema("Markdown 格式的章节正文。")),
			generator.Prop("section_type", generator.StringSchema(
				"章节类型：introduction 表示引言，body 表示正文，conclusion 表示结论。")),
			generator.Prop("image_descriptions", generator.StringArraySchema("本章节应配的图片描述。")),
		),
	}
}
