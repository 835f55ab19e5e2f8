package summary

import "ai_writer/generator"

func reasoningSchema(description string) map[string]any {
	return generator.ObjectSchema(description,
		generator.Prop("description", generator.StringSchema("推理原因。")),
	)
}

func planSchema() generator.Schema {
	section := generator.ObjectSchema("一个观点章节。",
		generator.Prop("title", generator.StringSchema("章节标题。")),
		generator.Prop("items", generator.StringArraySchema("本章节要提炼的观点和要点。")),
	)
	outline := generator.ObjectSchema("总结大纲。",
		generator.Prop("title", generator.StringSchema("总结标题。")),
		generator.Prop("subtitle", generator.NullableStringSchema("副标题，没有时为 null。")),
		generator.Prop("sections", generator.ArraySchema("观点章节列表，按顺序排列。", section)),
	)
	return generator.Schema{
		Name:        "summary_plan",
		Description: "文章 PPT 总结规划",
		Definition: generator.ObjectSchema("",
			generator.Prop("reasoning", reasoningSchema("规划背后的理由。")),
			generator.Prop("outline", outline),
		),
	}
}

func sectionSchema() generator.Schema {
	return generator.Schema{
		Name:        "summary_section",
		Description: "总结章节",
		Definition: generator.ObjectSchema("",
			generator.Prop("reasoning", reasoningSchema("章节内容背后的理由。")),
			generator.Prop("title", generator.StringSchema("章节标题。")),
			generator.Prop("markdown_content", generator.StringSchema("Markdown 格式的章节内容。")),
			generator.Prop("section_type", generator.StringSchema("章节类型：body 表示观点，conclusion 表示结论。")),
			generator.Prop("image_descriptions", generator.StringArraySchema("本章节应配的图片描述。")),
		),
	}
}
