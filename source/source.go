// Package source 读取待总结的文章内容：直接文本、本地文件、标准输入或网页。
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"ai_writer/document"
)

const (
	DefaultFetchTimeout = 30 * time.Second
	maxBodyBytes        = 8 << 20
)

var (
	ErrEmpty      = errors.New("source content is empty")
	ErrInvalidURL = errors.New("invalid url")
)

// Content 是读取到的正文，Title 和 URL 只在网页来源时填写。
type Content struct {
	Title string
	URL   string
	Text  string
}

func Text(s string) (Content, error) {
	return finish(Content{Text: s})
}

func File(path string) (Content, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("read %s: %w", path, err)
	}
	return finish(fromDocument(b))
}

func Reader(r io.Reader) (Content, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxBodyBytes))
	if err != nil {
		return Content{}, fmt.Errorf("read input: %w", err)
	}
	return finish(fromDocument(b))
}

// fromDocument 去掉导出文件开头的 front matter，只把正文交给模型。
func fromDocument(b []byte) Content {
	var meta struct {
		Title string `yaml:"title"`
	}
	body, err := document.ParseFrontMatter(b, &meta)
	if err != nil {
		return Content{Text: string(b)}
	}
	return Content{Title: meta.Title, Text: string(body)}
}

// Fetcher 抓取网页并用 readability 提取正文。
type Fetcher struct {
	Client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Fetcher{Client: &http.Client{Timeout: timeout}}
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Content, error) {
	pageURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") || pageURL.Host == "" {
		return Content{}, fmt.Errorf("%w %q", ErrInvalidURL, rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return Content{}, err
	}
	req.Header.Set("User-Agent", "ai_writer/1.0")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Content{}, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Content{}, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxBodyBytes), pageURL)
	if err != nil {
		return Content{}, fmt.Errorf("readability extraction failed: %w", err)
	}
	text := strings.TrimSpace(article.TextContent)
	if article.Title != "" && text != "" {
		text = article.Title + "\n\n" + text
	}
	return finish(Content{Title: article.Title, URL: pageURL.String(), Text: text})
}

func finish(c Content) (Content, error) {
	c.Text = strings.TrimSpace(c.Text)
	if c.Text == "" {
		return Content{}, ErrEmpty
	}
	return c, nil
}
