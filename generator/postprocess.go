package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var fencedJSON = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n(.*?)\\n?```$")

// Validator 由需要额外语义校验的结果类型实现。
type Validator interface {
	Validate() error
}

// PostProcess 把模型原始输出解析为 T：去掉代码块包裹，按 Schema 检查必填字段，再做类型解码。
func PostProcess[T any](raw string, schema Schema) (T, error) {
	var out T
	text := extractJSON(raw)
	if text == "" {
		return out, ErrEmptyResponse
	}

	generic, err := decodeGeneric(text)
	if err != nil {
		return out, fmt.Errorf("输出不是合法的 JSON: %w", err)
	}
	if err := checkRequired(schema.Definition, generic, ""); err != nil {
		return out, err
	}
	normalized, err := json.Marshal(normalizeNumbers(generic))
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(normalized, &out); err != nil {
		return out, fmt.Errorf("输出与 %s 结构不符: %w", schema.Name, err)
	}
	if v, ok := any(&out).(Validator); ok {
		if err := v.Validate(); err != nil {
			return out, err
		}
	}
	return out, nil
}

func decodeGeneric(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("JSON 之后还有多余内容")
	}
	return v, nil
}

// normalizeNumbers 把 300.0、3e2 这类整数值的浮点写法改写为整数，整型字段才能解码。
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, x := range t {
			t[k] = normalizeNumbers(x)
		}
	case []any:
		for i, x := range t {
			t[i] = normalizeNumbers(x)
		}
	case json.Number:
		s := string(t)
		if !strings.ContainsAny(s, ".eE") {
			return t
		}
		f, err := strconv.ParseFloat(s, 64)
		if err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return json.Number(strconv.FormatInt(int64(f), 10))
		}
	}
	return v
}

func extractJSON(raw string) string {
	text := strings.TrimSpace(raw)
	if m := fencedJSON.FindStringSubmatch(text); len(m) == 2 {
		text = strings.TrimSpace(m[1])
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	// 模型偶尔在 JSON 前后加说明文字。
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

// checkRequired 按 Schema 递归检查必填字段。数组字段缺省或为 null 时视为空数组，nullable 字段缺省视为 null。
func checkRequired(schema map[string]any, v any, path string) error {
	if schema == nil {
		return nil
	}
	if v == nil {
		if isOptional(schema) {
			return nil
		}
		return fmt.Errorf("%s: 不能为 null", label(path))
	}

	switch schemaType(schema) {
	case "object":
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: 应为对象", label(path))
		}
		props, _ := schema["properties"].(map[string]any)
		for _, name := range requiredNames(schema) {
			ps, _ := props[name].(map[string]any)
			val, present := obj[name]
			if !present {
				if isOptional(ps) {
					continue
				}
				return fmt.Errorf("%s: 缺少必填字段", join(path, name))
			}
			if err := checkRequired(ps, val, join(path, name)); err != nil {
				return err
			}
		}
	case "array":
		arr, ok := v.([]any)
		if !ok {
			return fmt.Errorf("%s: 应为数组", label(path))
		}
		items, _ := schema["items"].(map[string]any)
		for i, item := range arr {
			if err := checkRequired(items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func schemaType(schema map[string]any) string {
	switch t := schema["type"].(type) {
	case string:
		return t
	case []any:
		for _, x := range t {
			if s, ok := x.(string); ok && s != "null" {
				return s
			}
		}
	case []string:
		for _, s := range t {
			if s != "null" {
				return s
			}
		}
	}
	return ""
}

func isNullable(schema map[string]any) bool {
	switch t := schema["type"].(type) {
	case []any:
		for _, x := range t {
			if x == "null" {
				return true
			}
		}
	case []string:
		for _, s := range t {
			if s == "null" {
				return true
			}
		}
	}
	return false
}

func isOptional(schema map[string]any) bool {
	return schema == nil || isNullable(schema) || schemaType(schema) == "array"
}

func requiredNames(schema map[string]any) []string {
	switch r := schema["required"].(type) {
	case []string:
		return r
	case []any:
		names := make([]string, 0, len(r))
		for _, x := range r {
			if s, ok := x.(string); ok {
				names = append(names, s)
			}
		}
		return names
	}
	return nil
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func label(path string) string {
	if path == "" {
		return "根对象"
	}
	return path
}

// IsValidation 判断错误是否源自结构化输出校验。
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
