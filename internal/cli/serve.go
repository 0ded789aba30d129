package cli

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/charmbracelet/log"

	"github.com/roughcast/roughcast/pkg/cache"
	"github.com/roughcast/roughcast/pkg/pipeline"
)

const defaultServeAddr = ":8437"

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string
	noCache  bool
	cacheDir string
}

// newServeCmd creates the serve command, a local preview server that
// re-reads and re-renders the document on every request. Because artifacts
// are cached by document hash, unchanged files render from cache.
func newServeCmd(cfg *config) *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a live preview of a diagram document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") && cfg.Serve.Addr != "" {
				opts.addr = cfg.Serve.Addr
			}
			if !cmd.Flags().Changed("cache-dir") && cfg.CacheDir != "" {
				opts.cacheDir = cfg.CacheDir
			}
			return runServe(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "artifact cache directory")

	return cmd
}

// previewServer renders one document for the preview routes.
type previewServer struct {
	input  string
	runner *pipeline.Runner
	logger *log.Logger
}

func runServe(ctx context.Context, input string, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	var c cache.Cache
	if !opts.noCache {
		dir, err := cacheDir(opts.cacheDir)
		if err == nil {
			c, _ = cache.NewFileCache(dir)
		}
	}

	// The preview namespace keeps server-rendered artifacts from colliding
	// with CLI renders in a shared cache directory.
	keyer := cache.NewScopedKeyer(nil, "preview:")
	s := &previewServer{
		input:  input,
		runner: pipeline.NewRunner(c, keyer, logger),
		logger: logger,
	}
	defer s.runner.Close()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/render", s.handleRender)

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	printInfo("Preview server running")
	printKeyValue("address", "http://localhost"+opts.addr)
	printKeyValue("document", input)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// handleRender renders the document and writes the artifact. Query
// parameters map to render options: format, seed, exact, background,
// dpi, quality.
func (s *previewServer) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := pipeline.Options{
		Input:      s.input,
		Format:     q.Get("format"),
		Background: q.Get("background"),
		Logger:     s.logger,
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid seed", http.StatusBadRequest)
			return
		}
		opts.Seed = seed
	}
	if q.Get("exact") == "true" {
		opts.Exact = true
	}
	if v := q.Get("dpi"); v != "" {
		dpi, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid dpi", http.StatusBadRequest)
			return
		}
		opts.DPI = dpi
	}
	if v := q.Get("quality"); v != "" {
		quality, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid quality", http.StatusBadRequest)
			return
		}
		opts.Quality = quality
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.logger.Error("render failed", "err", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	switch result.Format {
	case pipeline.FormatPNG:
		w.Header().Set("Content-Type", "image/png")
	case pipeline.FormatPDF:
		w.Header().Set("Content-Type", "application/pdf")
	default:
		w.Header().Set("Content-Type", "image/svg+xml")
	}
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(result.Artifact)
}

// handleIndex serves a minimal page that polls /render.
func (s *previewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(previewPage))
}

const previewPage = `<!DOCTYPE html>
<html>
<head>
<title>roughcast preview</title>
<style>
  body { margin: 0; background: #f5f5f5; display: flex; justify-content: center; }
  img { max-width: 100vw; max-height: 100vh; }
</style>
</head>
<body>
<img id="preview" src="/render">
<script>
  setInterval(function () {
    document.getElementById("preview").src = "/render?t=" + Date.now();
  }, 1000);
</script>
</body>
</html>
`
