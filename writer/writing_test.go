package writer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"ai_writer/document"
	"ai_writer/generator"
)

func internetPlan() ArticlePlan {
	return ArticlePlan{
		Reasoning: Reasoning{Description: "按时间顺序讲述"},
		Outline: ArticleOutline{
			Title:                 "The History of the Internet",
			IntroductionWordCount: 150,
			ConclusionWordCount:   150,
			Sections: []OutlineSection{
				{Title: "Origins", Items: []string{"ARPANET", "TCP/IP"}, WordCount: 300},
				{Title: "Growth", Items: []string{"WWW", "Mobile"}, WordCount: 300},
			},
		},
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

// scriptedArticle 第一次调用返回 plan，之后每次返回一个章节，章节的 section_type 故意写错。
func scriptedArticle(t *testing.T, plan ArticlePlan) *generator.ScriptedLLM {
	planJSON := mustJSON(t, plan)
	return &generator.ScriptedLLM{
		Respond: func(call int, p generator.Prompt) (string, error) {
			if call == 0 {
				return planJSON, nil
			}
			s := ArticleSection{
				Reasoning:       Reasoning{Description: "r"},
				Title:           fmt.Sprintf("part-%d", call),
				MarkdownContent: fmt.Sprintf("## part-%d\n\n正文 %d", call, call),
				SectionType:     "conclusion",
			}
			return mustJSON(t, s), nil
		},
	}
}

func currentSectionBlock(user string) string {
	i := strings.Index(user, "当前要写的章节是")
	if i < 0 {
		return ""
	}
	return user[i:]
}

func TestGenerateInternetHistory(t *testing.T) {
	llm := scriptedArticle(t, internetPlan())
	g, err := NewArticleGenerator(llm, generator.Options{})
	if err != nil {
		t.Fatalf("NewArticleGenerator: %v", err)
	}
	md, data, err := g.Generate(context.Background(), "The History of the Internet", 1000)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	wantTypes := []SectionType{SectionIntroduction, SectionBody, SectionBody, SectionConclusion}
	if len(data.Sections) != len(wantTypes) {
		t.Fatalf("sections = %d, want %d", len(data.Sections), len(wantTypes))
	}
	for i, s := range data.Sections {
		if s.SectionType != wantTypes[i] {
			t.Errorf("section %d type = %q, want %q", i, s.SectionType, wantTypes[i])
		}
		if s.Title != fmt.Sprintf("part-%d", i+1) {
			t.Errorf("section %d out of call order: %q", i, s.Title)
		}
	}

	prompts := llm.Prompts()
	if len(prompts) != len(internetPlan().Outline.Sections)+3 {
		t.Fatalf("llm calls = %d, want N+3", len(prompts))
	}
	if !strings.Contains(prompts[0].User, "字数：1000") {
		t.Errorf("plan prompt should carry word count: %q", prompts[0].User)
	}
	if !strings.Contains(prompts[1].User, "约 150 字") {
		t.Errorf("introduction prompt should carry its word count")
	}
	for i, title := range []string{"Origins", "Growth"} {
		block := currentSectionBlock(prompts[2+i].User)
		if !strings.Contains(block, `"title": "`+title+`"`) || !strings.Contains(block, "约 300 字") {
			t.Errorf("section prompt %d does not target %s: %q", i, title, block)
		}
	}
	if !strings.Contains(prompts[4].User, "结论") {
		t.Errorf("last call should write the conclusion")
	}

	if !strings.HasPrefix(md, "# The History of the Internet\n\n## part-1") {
		t.Fatalf("unexpected document head: %q", md)
	}
	hs := document.Outline(md)
	if document.CountHeadings(hs, 1) != 1 || document.CountHeadings(hs, 2) < 4 {
		t.Fatalf("unexpected heading structure: %v", hs)
	}
	wantBody := "## part-1\n\n正文 1\n\n## part-2\n\n正文 2\n\n## part-3\n\n正文 3\n\n## part-4\n\n正文 4"
	if !strings.HasSuffix(md, wantBody) {
		t.Fatalf("sections not joined in order:\n%s", md)
	}
}

func TestGenerateWithoutBodySections(t *testing.T) {
	plan := internetPlan()
	plan.Outline.Sections = nil
	llm := scriptedArticle(t, plan)
	g, _ := NewArticleGenerator(llm, generator.Options{})
	_, data, err := g.Generate(context.Background(), "topic", 500)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(data.Sections) != 2 ||
		data.Sections[0].SectionType != SectionIntroduction ||
		data.Sections[1].SectionType != SectionConclusion {
		t.Fatalf("expected introduction + conclusion, got %+v", data.Sections)
	}
	if data.Plan.Outline.Sections == nil {
		t.Error("normalized plan should carry an empty section list")
	}
}

func TestGenerateSubtitleFollowsTitle(t *testing.T) {
	plan := internetPlan()
	sub := "From ARPANET to the Web"
	plan.Outline.Subtitle = &sub
	g, _ := NewArticleGenerator(scriptedArticle(t, plan), generator.Options{})
	md, _, err := g.Generate(context.Background(), "topic", 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(md, "# The History of the Internet\n\n*From ARPANET to the Web*\n\n") {
		t.Fatalf("subtitle not rendered after title: %q", md[:80])
	}
}

func TestGenerateStopsOnFirstFailure(t *testing.T) {
	planJSON := mustJSON(t, internetPlan())
	boom := errors.New("upstream down")
	llm := &generator.ScriptedLLM{Respond: func(call int, _ generator.Prompt) (string, error) {
		switch call {
		case 0:
			return planJSON, nil
		case 1:
			return mustJSON(t, ArticleSection{Title: "intro", MarkdownContent: "## 引言"}), nil
		default:
			return "", boom
		}
	}}
	g, _ := NewArticleGenerator(llm, generator.Options{})
	md, data, err := g.Generate(context.Background(), "topic", 1000)
	if !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if md != "" || len(data.Sections) != 0 {
		t.Fatal("no partial result should be returned")
	}
	if llm.Calls() != 3 {
		t.Fatalf("calls = %d, want 3", llm.Calls())
	}
}

func TestPlanValidationFailurePropagates(t *testing.T) {
	llm := &generator.ScriptedLLM{Respond: func(int, generator.Prompt) (string, error) {
		return `{"reasoning":{"description":"x"}}`, nil
	}}
	g, _ := NewArticleGenerator(llm, generator.Options{})
	_, _, err := g.Generate(context.Background(), "topic", 1000)
	if !errors.Is(err, generator.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if llm.Calls() != generator.DefaultMaxAttempts {
		t.Fatalf("calls = %d, want %d", llm.Calls(), generator.DefaultMaxAttempts)
	}
}

func TestPlanDefaultsWordCount(t *testing.T) {
	llm := &generator.ScriptedLLM{Responses: []string{mustJSON(t, internetPlan())}}
	p, _ := NewPlanner(llm, generator.Options{})
	plan, err := p.Plan(context.Background(), "主题", 0)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Outline.Title != "The History of the Internet" {
		t.Fatalf("plan returned unchanged: %+v", plan)
	}
	if !strings.Contains(llm.Prompts()[0].User, fmt.Sprintf("字数：%d", DefaultWordCount)) {
		t.Fatalf("default word count missing from prompt")
	}
}

func TestWriteSectionIndexBounds(t *testing.T) {
	plan := internetPlan()
	n := len(plan.Outline.Sections)
	for _, idx := range []int{-1, n, n + 5} {
		llm := &generator.ScriptedLLM{}
		w, _ := NewContentWriter(llm, generator.Options{})
		_, err := w.WriteSection(context.Background(), plan, idx)
		if !errors.Is(err, ErrSectionIndex) {
			t.Errorf("index %d: expected ErrSectionIndex, got %v", idx, err)
		}
		if llm.Calls() != 0 {
			t.Errorf("index %d: llm must not be called", idx)
		}
	}
	for idx := 0; idx < n; idx++ {
		llm := &generator.ScriptedLLM{Responses: []string{mustJSON(t, ArticleSection{Title: "t", MarkdownContent: "## t"})}}
		w, _ := NewContentWriter(llm, generator.Options{})
		s, err := w.WriteSection(context.Background(), plan, idx)
		if err != nil {
			t.Errorf("index %d: %v", idx, err)
		}
		if s.SectionType != SectionBody {
			t.Errorf("index %d: type = %q", idx, s.SectionType)
		}
	}
}

func TestTagIsAuthoritative(t *testing.T) {
	s := ArticleSection{Title: "x", SectionType: "引言"}
	tagged := Tag(s, SectionConclusion)
	if tagged.SectionType != SectionConclusion {
		t.Fatalf("Tag did not override: %q", tagged.SectionType)
	}
	if s.SectionType != "引言" {
		t.Fatal("Tag must not mutate its input")
	}
	if Tag(tagged, SectionConclusion).SectionType != SectionConclusion {
		t.Fatal("Tag should be idempotent")
	}
	if tagged.ImageDescriptions == nil {
		t.Fatal("image descriptions should default to an empty list")
	}
}

func TestGenerateArticleRejectsBlankTopic(t *testing.T) {
	llm := &generator.ScriptedLLM{}
	if _, err := GenerateArticle(context.Background(), "  \n", 1000, llm); !errors.Is(err, ErrEmptyTopic) {
		t.Fatalf("expected ErrEmptyTopic, got %v", err)
	}
	if llm.Calls() != 0 {
		t.Fatal("llm must not be called for a blank topic")
	}
}

func TestGenerateArticleWithMockModel(t *testing.T) {
	md, err := GenerateArticle(context.Background(), "分布式系统", 800, generator.MockLLM{})
	if err != nil {
		t.Fatalf("GenerateArticle: %v", err)
	}
	if !strings.HasPrefix(md, "# 示例title\n\n*示例subtitle*\n\n") {
		t.Fatalf("unexpected head: %q", md)
	}
	if got := len(document.Placeholders(md)); got != 3 {
		t.Fatalf("placeholders = %d, want one per section (3)", got)
	}
}

func TestGenerateLogsDocumentShape(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	g, err := NewArticleGenerator(generator.MockLLM{}, generator.Options{Logger: logger})
	if err != nil {
		t.Fatalf("NewArticleGenerator: %v", err)
	}
	if _, _, err := g.Generate(context.Background(), "主题", 500); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil || entry["msg"] != "article combined" {
			continue
		}
		if entry["images"] != float64(3) || entry["headings"] != float64(3) {
			t.Fatalf("unexpected combine log: %v", entry)
		}
		return
	}
	t.Fatalf("combine log not found in %s", buf.String())
}
