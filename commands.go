package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"ai_writer/config"
	"ai_writer/generator"
	"ai_writer/logging"
	"ai_writer/publisher"
	"ai_writer/server"
	"ai_writer/source"
	"ai_writer/store"
	"ai_writer/summary"
	"ai_writer/writer"
)

// app 保存根命令初始化后的共享状态。
type app struct {
	cfgFile string
	verbose bool

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "ai_writer",
		Short:         "用大模型规划并撰写文章，或把文章总结为 PPT 大纲",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is "+config.DefaultPath+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logs")

	root.AddCommand(newWriteCmd(a))
	root.AddCommand(newSummarizeCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.Setup(logging.Options{Level: level, Format: cfg.Log.Format, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) agentOptions() generator.Options {
	return generator.Options{MaxAttempts: a.cfg.LLM.MaxAttempts, Logger: a.logger}
}

// publish 把 CLI 生成的结果导出到输出目录。
func (a *app) publish(cmd *cobra.Command, rec store.Record, dir string) error {
	if dir == "" {
		dir = a.cfg.Output.Dir
	}
	files, err := publisher.New(dir, a.logger).Publish(rec)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", files.Markdown)
	return nil
}

func newWriteCmd(a *app) *cobra.Command {
	var (
		topic  string
		words  int
		out    bool
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "write",
		Short: "根据主题规划并撰写一篇 Markdown 文章",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := writer.ValidateTopic(topic); err != nil {
				return err
			}
			if words < 0 {
				return fmt.Errorf("--words must not be negative")
			}
			if words == 0 {
				words = a.cfg.Writer.WordCount
			}
			llm, err := buildLLM(a.cfg)
			if err != nil {
				return err
			}
			gen, err := writer.NewArticleGenerator(llm, a.agentOptions())
			if err != nil {
				return err
			}
			md, data, err := gen.Generate(cmd.Context(), topic, words)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), md)
			if !out && outDir == "" {
				return nil
			}
			rec, err := store.NewRecord(store.KindArticle, topic, data)
			if err != nil {
				return err
			}
			rec.WordCount = words
			rec.Title = data.Plan.Outline.Title
			rec.Subtitle = data.Plan.Outline.SubtitleText()
			rec.Markdown = md
			return a.publish(cmd, rec, outDir)
		},
	}
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "article topic")
	cmd.Flags().IntVarP(&words, "words", "w", 0, "target word count (default writer.word_count)")
	cmd.Flags().BoolVar(&out, "out", false, "also export .md/.html/.json to output.dir")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "export directory (overrides output.dir, implies --out)")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func newSummarizeCmd(a *app) *cobra.Command {
	var (
		file   string
		url    string
		text   string
		out    bool
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "把文章总结为适合 PPT 的 Markdown（--file、--url、--text 或标准输入）",
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := readContent(cmd, file, url, text, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := summary.ValidateContent(content.Text); err != nil {
				return err
			}
			llm, err := buildLLM(a.cfg)
			if err != nil {
				return err
			}
			gen, err := summary.NewArticleSummary(llm, a.agentOptions())
			if err != nil {
				return err
			}
			md, data, err := gen.Generate(cmd.Context(), content.Text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), md)
			if !out && outDir == "" {
				return nil
			}
			input := content.URL
			if input == "" {
				input = content.Text
			}
			rec, err := store.NewRecord(store.KindSummary, input, data)
			if err != nil {
				return err
			}
			rec.Title = data.Plan.Outline.Title
			rec.Subtitle = data.Plan.Outline.SubtitleText()
			rec.Markdown = md
			return a.publish(cmd, rec, outDir)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read article from file")
	cmd.Flags().StringVarP(&url, "url", "u", "", "fetch article from url")
	cmd.Flags().StringVar(&text, "text", "", "article text")
	cmd.Flags().BoolVar(&out, "out", false, "also export .md/.html/.json to output.dir")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "export directory (overrides output.dir, implies --out)")
	cmd.MarkFlagsMutuallyExclusive("file", "url", "text")
	return cmd
}

func readContent(cmd *cobra.Command, file, url, text string, stdin io.Reader) (source.Content, error) {
	var (
		c   source.Content
		err error
	)
	switch {
	case file != "":
		c, err = source.File(file)
	case url != "":
		c, err = source.NewFetcher(0).Fetch(cmd.Context(), url)
	case strings.TrimSpace(text) != "":
		c, err = source.Text(text)
	default:
		c, err = source.Reader(stdin)
	}
	if errors.Is(err, source.ErrEmpty) {
		return source.Content{}, summary.ErrEmptyContent
	}
	return c, err
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP API 服务",
		RunE: func(cmd *cobra.Command, _ []string) error {
			llm, err := buildLLM(a.cfg)
			if err != nil {
				return err
			}
			st, err := buildStore(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(st); err != nil {
					a.logger.Warn("close store", "err", err)
				}
			}()
			srv, err := server.New(server.Options{
				LLM:             llm,
				Store:           st,
				WordCount:       a.cfg.Writer.WordCount,
				GenerateTimeout: a.cfg.Server.GenerateTimeout,
				Agent:           a.agentOptions(),
				Logger:          a.logger,
			})
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "http listen address (overrides server.addr)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "打印版本号",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
