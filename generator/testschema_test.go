package generator

type testPlan struct {
	Title    string       `json:"title"`
	Subtitle *string      `json:"subtitle"`
	Count    int          `json:"count"`
	Items    []testItem   `json:"items"`
	Tags     []string     `json:"tags"`
	Meta     testPlanMeta `json:"meta"`
}

type testItem struct {
	Name string `json:"name"`
}

type testPlanMeta struct {
	Note string `json:"note"`
}

func testSchema() Schema {
	return Schema{
		Name:        "test_plan",
		Description: "测试用结构",
		Definition: ObjectSchema("",
			Prop("title", StringSchema("标题")),
			Prop("subtitle", NullableStringSchema("副标题")),
			Prop("count", IntegerSchema("数量")),
			Prop("items", ArraySchema("条目", ObjectSchema("", Prop("name", StringSchema("名称"))))),
			Prop("tags", StringArraySchema("标签")),
			Prop("meta", ObjectSchema("", Prop("note", StringSchema("备注")))),
		),
	}
}
