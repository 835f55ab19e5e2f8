package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ai_writer/generator"
	"ai_writer/publisher"
	"ai_writer/source"
	"ai_writer/store"
	"ai_writer/summary"
	"ai_writer/writer"
)

const DefaultGenerateTimeout = 15 * time.Minute

var (
	errBadRequest = errors.New("bad request")
	errUpstream   = errors.New("upstream failure")
)

// statusClientClosed 客户端在生成完成前断开连接。
const statusClientClosed = 499

func upstream(err error) error {
	return fmt.Errorf("%w: %w", errUpstream, err)
}

type Options struct {
	LLM             generator.LLMClient
	Store           store.Store
	Fetcher         *source.Fetcher
	WordCount       int
	GenerateTimeout time.Duration
	Agent           generator.Options
	Logger          *slog.Logger
}

type Server struct {
	llm       generator.LLMClient
	store     store.Store
	fetcher   *source.Fetcher
	wordCount int
	timeout   time.Duration
	agent     generator.Options
	logger    *slog.Logger
}

func New(opts Options) (*Server, error) {
	if opts.LLM == nil {
		return nil, errors.New("llm client required")
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore(0)
	}
	if opts.Fetcher == nil {
		opts.Fetcher = source.NewFetcher(0)
	}
	if opts.WordCount <= 0 {
		opts.WordCount = writer.DefaultWordCount
	}
	if opts.GenerateTimeout <= 0 {
		opts.GenerateTimeout = DefaultGenerateTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Agent.Logger == nil {
		opts.Agent.Logger = opts.Logger
	}
	return &Server{
		llm:       opts.LLM,
		store:     opts.Store,
		fetcher:   opts.Fetcher,
		wordCount: opts.WordCount,
		timeout:   opts.GenerateTimeout,
		agent:     opts.Agent,
		logger:    opts.Logger,
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logMiddleware)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/articles", s.handleArticleCreate)
		r.Post("/summaries", s.handleSummaryCreate)
		r.Get("/results/{id}", s.handleResult)
		r.Get("/results/{id}/html", s.handleResultHTML)
	})
	return r
}

// ListenAndServe 阻塞直到 ctx 结束，然后优雅关闭。
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down web server")
		return srv.Shutdown(shutdownCtx)
	}
}

// --- Handlers ---

type articleCreateReq struct {
	Topic     string `json:"topic"`
	WordCount int    `json:"word_count"`
}

type summaryCreateReq struct {
	Content string `json:"content"`
	URL     string `json:"url"`
}

type errorResp struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleArticleCreate(w http.ResponseWriter, r *http.Request) {
	var req articleCreateReq
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := writer.ValidateTopic(req.Topic); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.WordCount < 0 {
		s.writeError(w, r, fmt.Errorf("%w: word_count must not be negative", errBadRequest))
		return
	}
	wc := req.WordCount
	if wc == 0 {
		wc = s.wordCount
	}

	gen, err := writer.NewArticleGenerator(s.llm, s.agent)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	md, data, err := gen.Generate(ctx, req.Topic, wc)
	if err != nil {
		s.writeError(w, r, upstream(err))
		return
	}

	rec, err := store.NewRecord(store.KindArticle, req.Topic, data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec.WordCount = wc
	rec.Title = data.Plan.Outline.Title
	rec.Subtitle = data.Plan.Outline.SubtitleText()
	rec.Markdown = md
	s.save(w, r, rec)
}

func (s *Server) handleSummaryCreate(w http.ResponseWriter, r *http.Request) {
	var req summaryCreateReq
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	content := req.Content
	input := req.Content
	if strings.TrimSpace(content) == "" && strings.TrimSpace(req.URL) != "" {
		page, err := s.fetcher.Fetch(ctx, req.URL)
		if err != nil {
			s.writeError(w, r, upstream(err))
			return
		}
		content = page.Text
		input = page.URL
	}
	if err := summary.ValidateContent(content); err != nil {
		s.writeError(w, r, err)
		return
	}

	gen, err := summary.NewArticleSummary(s.llm, s.agent)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	md, data, err := gen.Generate(ctx, content)
	if err != nil {
		s.writeError(w, r, upstream(err))
		return
	}

	rec, err := store.NewRecord(store.KindSummary, input, data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec.Title = data.Plan.Outline.Title
	rec.Subtitle = data.Plan.Outline.SubtitleText()
	rec.Markdown = md
	s.save(w, r, rec)
}

func (s *Server) save(w http.ResponseWriter, r *http.Request, rec store.Record) {
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.InfoContext(r.Context(), "result saved", "id", rec.ID, "kind", rec.Kind, "title", rec.Title)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleResultHTML(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := publisher.RenderHTML(rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

// --- Helpers ---

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 8<<20))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid json: %v", errBadRequest, err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, writer.ErrEmptyTopic),
		errors.Is(err, summary.ErrEmptyContent),
		errors.Is(err, source.ErrEmpty),
		errors.Is(err, source.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled):
		return statusClientClosed
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	level := slog.LevelWarn
	switch {
	case status == statusClientClosed:
		level = slog.LevelInfo
	case status >= http.StatusInternalServerError:
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "request failed",
		"path", r.URL.Path,
		"status", status,
		"upstream", errors.Is(err, errUpstream),
		"validation", generator.IsValidation(err),
		"err", err,
	)
	writeJSON(w, status, errorResp{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
