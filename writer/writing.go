package writer

import (
	"context"
	"log/slog"

	"ai_writer/document"
	"ai_writer/generator"
)

// ArticleGenerator 依次调用规划与写作，并把章节拼成完整文章。
type ArticleGenerator struct {
	planner *Planner
	writer  *ContentWriter
	logger  *slog.Logger
}

func NewArticleGenerator(llm generator.LLMClient, opts generator.Options) (*ArticleGenerator, error) {
	planner, err := NewPlanner(llm, opts)
	if err != nil {
		return nil, err
	}
	writer, err := NewContentWriter(llm, opts)
	if err != nil {
		return nil, err
	}
	return &ArticleGenerator{planner: planner, writer: writer, logger: opts.Log()}, nil
}

// Generate 规划一次，然后按 引言、正文（按大纲顺序）、结论 的顺序逐个写作。
// 任一步失败即整体失败，不返回部分结果。
func (g *ArticleGenerator) Generate(ctx context.Context, topic string, wordCount int) (string, ArticleData, error) {
	if wordCount <= 0 {
		wordCount = DefaultWordCount
	}

	g.logger.InfoContext(ctx, "planning article", "topic", topic, "word_count", wordCount)
	plan, err := g.planner.Plan(ctx, topic, wordCount)
	if err != nil {
		return "", ArticleData{}, err
	}
	g.logger.InfoContext(ctx, "article plan created",
		"title", plan.Outline.Title,
		"sections", len(plan.Outline.Sections),
		"reasoning", plan.Reasoning.Description,
	)

	sections, err := g.generateSections(ctx, plan)
	if err != nil {
		return "", ArticleData{}, err
	}

	markdown := combineSections(plan, sections)
	g.logger.InfoContext(ctx, "article combined",
		"title", plan.Outline.Title,
		"sections", len(sections),
		"headings", document.CountHeadings(document.Outline(markdown), 2),
		"images", len(document.Placeholders(markdown)),
	)
	return markdown, ArticleData{Plan: plan, Sections: sections}, nil
}

func (g *ArticleGenerator) generateSections(ctx context.Context, plan ArticlePlan) ([]ArticleSection, error) {
	total := len(plan.Outline.Sections)
	sections := make([]ArticleSection, 0, total+2)

	g.logger.InfoContext(ctx, "writing introduction")
	intro, err := g.writer.WriteIntroduction(ctx, plan)
	if err != nil {
		return nil, err
	}
	sections = append(sections, intro)

	for i := 0; i < total; i++ {
		g.logger.InfoContext(ctx, "writing section", "index", i+1, "total", total, "title", plan.Outline.Sections[i].Title)
		section, err := g.writer.WriteSection(ctx, plan, i)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}

	g.logger.InfoContext(ctx, "writing conclusion")
	conclusion, err := g.writer.WriteConclusion(ctx, plan)
	if err != nil {
		return nil, err
	}
	return append(sections, conclusion), nil
}

func combineSections(plan ArticlePlan, sections []ArticleSection) string {
	bodies := make([]string, len(sections))
	for i, s := range sections {
		bodies[i] = s.MarkdownContent
	}
	return document.Combine(plan.Outline.Title, plan.Outline.SubtitleText(), bodies)
}

// GenerateArticle 是写作流程的便捷入口，只返回 Markdown。
func GenerateArticle(ctx context.Context, topic string, wordCount int, llm generator.LLMClient) (string, error) {
	if err := ValidateTopic(topic); err != nil {
		return "", err
	}
	g, err := NewArticleGenerator(llm, generator.Options{})
	if err != nil {
		return "", err
	}
	markdown, _, err := g.Generate(ctx, topic, wordCount)
	return markdown, err
}
