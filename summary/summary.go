package summary

import (
	"context"
	"log/slog"

	"ai_writer/document"
	"ai_writer/generator"
)

// ArticleSummary 把一篇文章总结为适合 PPT 的 Markdown。
type ArticleSummary struct {
	planner *Planner
	writer  *SummaryWriter
	logger  *slog.Logger
}

func NewArticleSummary(llm generator.LLMClient, opts generator.Options) (*ArticleSummary, error) {
	planner, err := NewPlanner(llm, opts)
	if err != nil {
		return nil, err
	}
	writer, err := NewSummaryWriter(llm, opts)
	if err != nil {
		return nil, err
	}
	return &ArticleSummary{planner: planner, writer: writer, logger: opts.Log()}, nil
}

// Generate 规划一次，按大纲顺序写各观点章节，最后写结论。
func (s *ArticleSummary) Generate(ctx context.Context, content string) (string, SummaryData, error) {
	s.logger.InfoContext(ctx, "planning summary", "content_chars", len([]rune(content)))
	plan, err := s.planner.Plan(ctx, content)
	if err != nil {
		return "", SummaryData{}, err
	}
	s.logger.InfoContext(ctx, "summary plan created",
		"title", plan.Outline.Title,
		"sections", len(plan.Outline.Sections),
		"reasoning", plan.Reasoning.Description,
	)

	total := len(plan.Outline.Sections)
	sections := make([]ArticleSection, 0, total+1)
	for i := 0; i < total; i++ {
		s.logger.InfoContext(ctx, "summarizing section", "index", i+1, "total", total, "title", plan.Outline.Sections[i].Title)
		section, err := s.writer.WriteSection(ctx, plan, i)
		if err != nil {
			return "", SummaryData{}, err
		}
		sections = append(sections, section)
	}

	s.logger.InfoContext(ctx, "writing conclusion")
	conclusion, err := s.writer.WriteConclusion(ctx, plan)
	if err != nil {
		return "", SummaryData{}, err
	}
	sections = append(sections, conclusion)

	bodies := make([]string, len(sections))
	for i, sec := range sections {
		bodies[i] = sec.MarkdownContent
	}
	markdown := document.Combine(plan.Outline.Title, plan.Outline.SubtitleText(), bodies)
	s.logger.InfoContext(ctx, "summary combined",
		"title", plan.Outline.Title,
		"sections", len(sections),
		"headings", document.CountHeadings(document.Outline(markdown), 2),
		"images", len(document.Placeholders(markdown)),
	)
	return markdown, SummaryData{Plan: plan, Sections: sections}, nil
}

// SummaryArticle 是总结流程的便捷入口，只返回 Markdown。
func SummaryArticle(ctx context.Context, content string, llm generator.LLMClient) (string, error) {
	if err := ValidateContent(content); err != nil {
		return "", err
	}
	s, err := NewArticleSummary(llm, generator.Options{})
	if err != nil {
		return "", err
	}
	markdown, _, err := s.Generate(ctx, content)
	return markdown, err
}
