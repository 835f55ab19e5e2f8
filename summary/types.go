package summary

// SectionType 总结只有正文观点与结论两种章节。
type SectionType string

const (
	SectionBody       SectionType = "body"
	SectionConclusion SectionType = "conclusion"
)

type Reasoning struct {
	Description string `json:"description"`
}

// OutlineSection 是一页（或一组）PPT 的观点规划，不含字数目标。
type OutlineSection struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

type ArticleOutline struct {
	Title    string           `json:"title"`
	Subtitle *string          `json:"subtitle"`
	Sections []OutlineSection `json:"sections"`
}

func (o ArticleOutline) SubtitleText() string {
	if o.Subtitle == nil {
		return ""
	}
	return *o.Subtitle
}

type ArticlePlan struct {
	Reasoning Reasoning      `json:"reasoning"`
	Outline   ArticleOutline `json:"outline"`
}

func (p ArticlePlan) normalized() ArticlePlan {
	sections := make([]OutlineSection, len(p.Outline.Sections))
	for i, s := range p.Outline.Sections {
		if s.Items == nil {
			s.Items = []string{}
		}
		sections[i] = s
	}
	p.Outline.Sections = sections
	return p
}

type ArticleSection struct {
	Reasoning         Reasoning   `json:"reasoning"`
	Title             string      `json:"title"`
	MarkdownContent   string      `json:"markdown_content"`
	SectionType       SectionType `json:"section_type"`
	ImageDescriptions []string    `json:"image_descriptions"`
}

// Tag 返回角色被改写为 kind 的副本。
func Tag(s ArticleSection, kind SectionType) ArticleSection {
	s.SectionType = kind
	if s.ImageDescriptions == nil {
		s.ImageDescriptions = []string{}
	}
	return s
}

// SummaryData 是随 Markdown 一起返回的结构化数据。
type SummaryData struct {
	Plan     ArticlePlan      `json:"plan"`
	Sections []ArticleSection `json:"sections"`
}
