package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const articleHTML = `<!DOCTYPE html>
<html><head><title>云原生简史</title></head>
<body>
<nav><a href="/">首页</a></nav>
<article>
<h1>云原生简史</h1>
<p>容器技术让应用的打包与交付变得标准化，开发者不再需要关心底层机器的差异。这一变化深刻影响了软件交付的方式。</p>
<p>随后编排系统出现，调度、伸缩与自愈成为平台的基础能力，运维的重心从机器转向了服务本身。</p>
<p>服务网格与可观测性工具进一步完善了生态，团队可以在大规模场景下保持系统的稳定与可理解。</p>
</article>
<footer>版权所有</footer>
</body></html>`

func TestText(t *testing.T) {
	c, err := Text("  正文  \n")
	if err != nil || c.Text != "正文" {
		t.Fatalf("Text = %+v, %v", c, err)
	}
	if _, err := Text(" \n\t"); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.md")
	if err := os.WriteFile(path, []byte("# 标题\n\n内容\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := File(path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if c.Text != "# 标题\n\n内容" {
		t.Fatalf("unexpected text %q", c.Text)
	}
	if _, err := File(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileStripsFrontMatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exported.md")
	content := "---\nid: abc\ntitle: 云原生简史\n---\n\n# 云原生简史\n\n正文\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := File(path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if c.Title != "云原生简史" || c.Text != "# 云原生简史\n\n正文" {
		t.Fatalf("unexpected content: %+v", c)
	}

	c, err = Reader(strings.NewReader("---\n不是 front matter"))
	if err != nil || c.Text != "---\n不是 front matter" {
		t.Fatalf("plain text should pass through: %+v, %v", c, err)
	}
}

func TestReader(t *testing.T) {
	c, err := Reader(strings.NewReader("stdin 内容"))
	if err != nil || c.Text != "stdin 内容" {
		t.Fatalf("Reader = %+v, %v", c, err)
	}
}

func TestFetchExtractsArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	c, err := NewFetcher(0).Fetch(context.Background(), srv.URL+"/post")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if c.Title != "云原生简史" {
		t.Errorf("title = %q", c.Title)
	}
	if !strings.Contains(c.Text, "编排系统") {
		t.Errorf("article body missing: %q", c.Text)
	}
	if strings.Contains(c.Text, "版权所有") {
		t.Errorf("boilerplate should be stripped: %q", c.Text)
	}
	if c.URL != srv.URL+"/post" {
		t.Errorf("url = %q", c.URL)
	}
}

func TestFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(0)
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
	for _, bad := range []string{"", "ftp://example.com/a", "not a url"} {
		if _, err := f.Fetch(context.Background(), bad); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("%q: expected invalid url error", bad)
		}
	}
}
