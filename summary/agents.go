package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai_writer/generator"
)

var (
	ErrSectionIndex = errors.New("section index out of range")
	ErrEmptyContent = errors.New("content must not be empty")
)

// ValidateContent 拒绝空白内容。
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	return nil
}

// Planner 根据文章内容生成 PPT 总结规划。
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

func (p *Planner) Plan(ctx context.Context, content string) (ArticlePlan, error) {
	plan, err := p.agent.Run(ctx, buildPlanPrompt(content))
	if err != nil {
		return ArticlePlan{}, fmt.Errorf("plan summary: %w", err)
	}
	return plan.normalized(), nil
}

// SummaryWriter 按规划写出各观点章节与结论。
type SummaryWriter struct {
	agent *generator.Agent[ArticleSection]
}

func NewSummaryWriter(llm generator.LLMClient, opts generator.Options) (*SummaryWriter, error) {
	agent, err := generator.NewAgent[ArticleSection](llm, summarySystemPrompt, sectionSchema(), opts.AgentOptions()...)
	if err != nil {
		return nil, err
	}
	return &SummaryWriter{agent: agent}, nil
}

func (w *SummaryWriter) WriteSection(ctx context.Context, plan ArticlePlan, index int) (ArticleSection, error) {
	if index < 0 || index >= len(plan.Outline.Sections) {
		return ArticleSection{}, fmt.Errorf("%w: %d (共 %d 个章节)", ErrSectionIndex, index, len(plan.Outline.Sections))
	}
	planJSON, err := toJSON(plan)
	if err != nil {
		return ArticleSection{}, err
	}
	sectionJSON, err := toJSON(plan.Outline.Sections[index])
	if err != nil {
		return ArticleSection{}, err
	}
	return w.write(ctx, buildSectionPrompt(planJSON, sectionJSON), SectionBody)
}

func (w *SummaryWriter) WriteConclusion(ctx context.Context, plan ArticlePlan) (ArticleSection, error) {
	planJSON, err := toJSON(plan)
	if err != nil {
		return ArticleSection{}, err
	}
	return w.write(ctx, buildConclusionPrompt(planJSON), SectionConclusion)
}

func (w *SummaryWriter) write(ctx context.Context, prompt string, kind SectionType) (ArticleSection, error) {
	section, err := w.agent.Run(ctx, prompt)
	if err != nil {
		return ArticleSection{}, fmt.Errorf("write %s: %w", kind, err)
	}
	return Tag(section, kind), nil
}
