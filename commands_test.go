package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ai_writer/config"
	"ai_writer/generator"
	"ai_writer/store"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("LLM_PROVIDER", "mock")
	t.Setenv("STORE_BACKEND", "")
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestWriteCommand(t *testing.T) {
	out, err := runCLI(t, "", "write", "--topic", "互联网的历史", "--words", "600")
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasPrefix(out, "# 示例title\n\n*示例subtitle*\n\n") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestWriteCommandExports(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	if _, err := runCLI(t, "", "write", "--topic", "t", "--out-dir", dir); err != nil {
		t.Fatalf("write: %v", err)
	}
	for _, pattern := range []string{"*.md", "*.html", "*.json"} {
		matches, _ := filepath.Glob(filepath.Join(dir, pattern))
		if len(matches) != 1 {
			t.Errorf("%s: got %v", pattern, matches)
		}
	}
}

func TestWriteCommandRejectsBlankTopic(t *testing.T) {
	if _, err := runCLI(t, "", "write", "--topic", "  "); err == nil {
		t.Fatal("expected error for blank topic")
	}
	if _, err := runCLI(t, "", "write"); err == nil {
		t.Fatal("expected error for missing --topic")
	}
}

func TestSummarizeFromStdinAndFile(t *testing.T) {
	out, err := runCLI(t, "一篇关于容器技术的文章", "summarize")
	if err != nil {
		t.Fatalf("summarize stdin: %v", err)
	}
	if !strings.HasPrefix(out, "# 示例title") {
		t.Fatalf("unexpected output: %q", out)
	}

	path := filepath.Join(t.TempDir(), "a.md")
	if err := os.WriteFile(path, []byte("文件内容"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "", "summarize", "--file", path); err != nil {
		t.Fatalf("summarize file: %v", err)
	}
	if _, err := runCLI(t, "  \n", "summarize"); err == nil {
		t.Fatal("expected error for empty stdin")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "", "version")
	if err != nil || strings.TrimSpace(out) != version {
		t.Fatalf("version = %q, %v", out, err)
	}
}

func TestBuildLLM(t *testing.T) {
	cases := []struct {
		name    string
		llm     config.LLM
		wantErr bool
	}{
		{"mock", config.LLM{Provider: "mock"}, false},
		{"openai", config.LLM{Provider: "openai", Model: "gpt-4o-mini", APIKey: "k"}, false},
		{"openai without key", config.LLM{Provider: "openai", Model: "gpt-4o-mini"}, true},
		{"deepseek without base url", config.LLM{Provider: "deepseek", Model: "deepseek-chat", APIKey: "k"}, true},
		{"deepseek", config.LLM{Provider: "deepseek", Model: "deepseek-chat", APIKey: "k", BaseURL: "https://api.deepseek.com"}, false},
		{"unknown", config.LLM{Provider: "claude"}, true},
		{"empty", config.LLM{}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			llm, err := buildLLM(config.Config{LLM: c.llm})
			if (err != nil) != c.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, c.wantErr)
			}
			if c.name == "mock" {
				if _, ok := llm.(generator.MockLLM); !ok {
					t.Fatalf("expected MockLLM, got %T", llm)
				}
			}
		})
	}
}

func TestBuildStoreDefaultsToMemory(t *testing.T) {
	st, err := buildStore(context.Background(), config.Config{Store: config.Store{Backend: "memory"}})
	if err != nil {
		t.Fatalf("buildStore: %v", err)
	}
	if _, ok := st.(*store.MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", st)
	}
}

type closingStore struct {
	*store.MemoryStore
	closed bool
}

func (c *closingStore) Close() error {
	c.closed = true
	return nil
}

func TestCloseStore(t *testing.T) {
	st := &closingStore{MemoryStore: store.NewMemoryStore(0)}
	if err := closeStore(st); err != nil || !st.closed {
		t.Fatalf("closer not closed: %v", err)
	}
	if err := closeStore(store.NewMemoryStore(0)); err != nil {
		t.Fatalf("memory store: %v", err)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
