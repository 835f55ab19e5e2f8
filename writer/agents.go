package writer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai_writer/generator"
)

// DefaultWordCount 是未指定字数时的目标字数。
const DefaultWordCount = 1500

var (
	// ErrSectionIndex 表示章节下标超出大纲范围。
	ErrSectionIndex = errors.New("section index out of range")
	// ErrEmptyTopic 表示主题为空白。
	ErrEmptyTopic = errors.New("topic must not be empty")
)

// ValidateTopic 拒绝空白主题，供调用方在生成前检查。
func ValidateTopic(topic string) error {
	if strings.TrimSpace(topic) == "" {
		return ErrEmptyTopic
	}
	return nil
}

// Planner 根据主题和字数生成文章规划。
type Planner struct {
	agent *generator.Agent[ArticlePlan]
}

func NewPlanner(llm generator.LLMClient, opts generator.Options) (*Planner, error) {
	agent, err := generator.NewAgent[ArticlePlan](llm, plannerSystemPrompt, planSchema(), opts.AgentOptions()...)
	if err != nil {
		return nil, err
	}
	return &Planner{agent: agent}, nil
}

// Plan 只调用一次模型；wordCount 不大于 0 时使用 DefaultWordCount。
func (p *Planner) Plan(ctx context.Context, topic string, wordCount int) (ArticlePlan, error) {
	if wordCount <= 0 {
		wordCount = DefaultWordCount
	}
	plan, err := p.agent.Run(ctx, buildPlanPrompt(topic, wordCount))
	if err != nil {
		return ArticlePlan{}, fmt.Errorf("plan article: %w", err)
	}
	return plan.normalized(), nil
}

// ContentWriter 按规划逐个写出引言、正文章节与结论。
// 每次调用相互独立，只通过提示词携带完整规划。
type ContentWriter struct {
	agent *generator.Agent[ArticleSection]
}

func NewContentWriter(llm generator.LLMClient, opts generator.Options) (*ContentWriter, error) {
	agent, err := generator.NewAgent[ArticleSection](llm, writerSystemPrompt, sectionSchema(), opts.AgentOptions()...)
	if err != nil {
		return nil, err
	}
	return &ContentWriter{agent: agent}, nil
}

func (w *ContentWriter) WriteIntroduction(ctx context.Context, plan ArticlePlan) (ArticleSection, error) {
	planJSON, err := toJSON(plan)
	if err != nil {
		return ArticleSection{}, err
	}
	return w.write(ctx, buildIntroductionPrompt(planJSON, plan.Outline.IntroductionWordCount), SectionIntroduction)
}

// WriteSection 要求 0 <= index < len(plan.Outline.Sections)，越界时不调用模型直接返回 ErrSectionIndex。
func (w *ContentWriter) WriteSection(ctx context.Context, plan ArticlePlan, index int) (ArticleSection, error) {
	if index < 0 || index >= len(plan.Outline.Sections) {
		return ArticleSection{}, fmt.Errorf("%w: %d (共 %d 个章节)", ErrSectionIndex, index, len(plan.Outline.Sections))
	}
	section := plan.Outline.Sections[index]
	planJSON, err := toJSON(plan)
	if err != nil {
		return ArticleSection{}, err
	}
	sectionJSON, err := toJSON(section)
	if err != nil {
		return ArticleSection{}, err
	}
	return w.write(ctx, buildSectionPrompt(planJSON, sectionJSON, section.WordCount), SectionBody)
}

func (w *ContentWriter) WriteConclusion(ctx context.Context, plan ArticlePlan) (ArticleSection, error) {
	planJSON, err := toJSON(plan)
	if err != nil {
		return ArticleSection{}, err
	}
	return w.write(ctx, buildConclusionPrompt(planJSON, plan.Outline.ConclusionWordCount), SectionConclusion)
}

func (w *ContentWriter) write(ctx context.Context, prompt string, kind SectionType) (ArticleSection, error) {
	section, err := w.agent.Run(ctx, prompt)
	if err != nil {
		return ArticleSection{}, fmt.Errorf("write %s: %w", kind, err)
	}
	return Tag(section, kind), nil
}
