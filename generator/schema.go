package generator

import "encoding/json"

// Schema 描述一次结构化输出的目标形状（JSON Schema）。
// 对象一律列出全部 required 并关闭 additionalProperties，满足 strict 模式要求；
// 可缺省的字段用数组或 nullable 表达。
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// JSON 返回缩进后的 Schema 文本，用于写入提示词。
func (s Schema) JSON() string {
	b, err := json.MarshalIndent(s.Definition, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Property 是对象的一个字段，保持声明顺序。
type Property struct {
	Name   string
	Schema map[string]any
}

func Prop(name string, schema map[string]any) Property {
	return Property{Name: name, Schema: schema}
}

func ObjectSchema(description string, props ...Property) map[string]any {
	properties := make(map[string]any, len(props))
	required := make([]string, 0, len(props))
	for _, p := range props {
		properties[p.Name] = p.Schema
		required = append(required, p.Name)
	}
	s := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
	if description != "" {
		s["description"] = description
	}
	return s
}

func StringSchema(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

// NullableStringSchema 对应可选字符串，缺省为 null。
func NullableStringSchema(description string) map[string]any {
	return map[string]any{"type": []any{"string", "null"}, "description": description}
}

func IntegerSchema(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

func ArraySchema(description string, items map[string]any) map[string]any {
	return map[string]any{"type": "array", "description": description, "items": items}
}

func StringArraySchema(description string) map[string]any {
	return ArraySchema(description, map[string]any{"type": "string"})
}
