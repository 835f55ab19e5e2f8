package writer

// SectionType 标记章节在文章中的角色。
type SectionType string

const (
	SectionIntroduction SectionType = "introduction"
	SectionBody         SectionType = "body"
	SectionConclusion   SectionType = "conclusion"
)

// Reasoning 是规划或章节背后的理由，仅用于展示与日志。
type Reasoning struct {
	Description string `json:"description"`
}

// OutlineSection 是大纲中的一个章节。
type OutlineSection struct {
	Title     string   `json:"title"`
	Items     []string `json:"items"`
	WordCount int      `json:"word_count"`
}

// ArticleOutline 的章节顺序即最终文档的章节顺序。
type ArticleOutline struct {
	Title                 string           `json:"title"`
	Subtitle              *string          `json:"subtitle"`
	IntroductionWordCount int              `json:"introduction_word_count"`
	ConclusionWordCount   int              `json:"conclusion_word_count"`
	Sections              []OutlineSection `json:"sections"`
}

// SubtitleText 返回副标题，没有时为空串。
func (o ArticleOutline) SubtitleText() string {
	if o.Subtitle == nil {
		return ""
	}
	return *o.Subtitle
}

// ArticlePlan 在一次生成中只创建一次，之后只读。
type ArticlePlan struct {
	Reasoning Reasoning      `json:"reasoning"`
	Outline   ArticleOutline `json:"outline"`
}

// normalized 把缺省的列表补成空列表，使序列化结果稳定。
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

// ArticleSection 是一次写作调用产出的章节。
type ArticleSection struct {
	Reasoning         Reasoning   `json:"reasoning"`
	Title             string      `json:"title"`
	MarkdownContent   string      `json:"markdown_content"`
	SectionType       SectionType `json:"section_type"`
	ImageDescriptions []string    `json:"image_descriptions"`
}

// Tag 返回角色被改写为 kind 的副本，模型给出的值被丢弃。
func Tag(s ArticleSection, kind SectionType) ArticleSection {
	s.SectionType = kind
	if s.ImageDescriptions == nil {
		s.ImageDescriptions = []string{}
	}
	return s
}

// ArticleData 是随 Markdown 一起返回的结构化数据。
type ArticleData struct {
	Plan     ArticlePlan      `json:"plan"`
	Sections []ArticleSection `json:"sections"`
}
