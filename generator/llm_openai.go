package generator

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
// DeepSeek 等 OpenAI 兼容接口通过 BaseURL 接入。
type OpenAILLM struct {
	Model          string
	ResponseFormat ResponseFormat
	Temperature    float64
	client         openai.Client
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("llm api key missing; provide llm.api_key or DEEPSEEK_API")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.SDKRetries > 0 {
		opts = append(opts, option.WithMaxRetries(cfg.SDKRetries))
	}
	format := cfg.ResponseFormat
	if format == "" {
		format = FormatJSONObject
	}
	return &OpenAILLM{
		Model:          cfg.Model,
		ResponseFormat: format,
		Temperature:    cfg.Temperature,
		client:         openai.NewClient(opts...),
	}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, o.params(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	// 空内容交给 PostProcess 判定，走校验重试。
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAILLM) params(prompt Prompt) openai.ChatCompletionNewParams {
	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(prompt.System),
	}
	for _, h := range prompt.History {
		switch h.Role {
		case "assistant":
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(h.Content))
		default:
			msgs = append(msgs, openai.UserMessage(h.Content))
		}
	}
	msgs = append(msgs, openai.UserMessage(prompt.User))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.Model),
		Messages: msgs,
	}
	if o.Temperature > 0 {
		params.Temperature = openai.Float(o.Temperature)
	}
	if prompt.Schema != nil {
		params.ResponseFormat = o.responseFormat(*prompt.Schema)
	}
	return params
}

func (o *OpenAILLM) responseFormat(schema Schema) openai.ChatCompletionNewParamsResponseFormatUnion {
	if o.ResponseFormat == FormatJSONSchema {
		return openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        schema.Name,
					Description: openai.String(schema.Description),
					Schema:      schema.Definition,
					Strict:      openai.Bool(true),
				},
			},
		}
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
	}
}
