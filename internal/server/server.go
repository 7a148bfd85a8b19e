// Package server implements the diagram preview server.
//
// The server is an authoring frontend: it renders whole WaveJSON
// documents in memory on demand and hands the images back over HTTP,
// without segmentation and without touching the filesystem.
// Documentation builds go through pkg/emit instead.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/cache"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/emit"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/errors"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/observability"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/render"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/restyle"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/wavejson"
)

const (
	// maxRequestBody bounds POST bodies. WaveJSON is hand-written;
	// anything past a megabyte is a mistake, not a diagram.
	maxRequestBody = 1 << 20

	// maxRequestDPI bounds the dpi query parameter.
	maxRequestDPI = 2400
)

// Options configure a Server. Zero-value fields pick the same defaults
// as the emitter: the external WaveDrom renderer, the default skin and
// DPI, and no caching.
type Options struct {
	Logger   *log.Logger
	Renderer render.Renderer
	Restyle  restyle.Options
	Skin     string
	DPI      float64
	Cache    cache.Cache
	Keyer    cache.Keyer

	// StoreLimit bounds the in-memory artifact store.
	// Zero selects DefaultStoreLimit.
	StoreLimit int
}

// Server renders WaveJSON documents over HTTP.
type Server struct {
	logger   *log.Logger
	renderer render.Renderer
	restyle  restyle.Options
	skin     string
	dpi      float64
	cache    cache.Cache
	keyer    cache.Keyer
	store    *artifactStore

	// convert rasterizes SVG bytes; render.ToPNG outside tests.
	convert func(svg []byte, dpi float64) ([]byte, error)

	registry *prometheus.Registry
	metrics  *metrics
}

// New creates a Server from opts.
func New(opts Options) *Server {
	s := &Server{
		logger:   opts.Logger,
		renderer: opts.Renderer,
		restyle:  opts.Restyle,
		skin:     opts.Skin,
		dpi:      opts.DPI,
		cache:    opts.Cache,
		keyer:    opts.Keyer,
		store:    newArtifactStore(opts.StoreLimit),
		convert:  render.ToPNG,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.renderer == nil {
		s.renderer = render.CommandRenderer{}
	}
	if s.skin == "" {
		s.skin = emit.DefaultSkin
	}
	if s.dpi <= 0 {
		s.dpi = emit.DefaultDPI
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	return s
}

// RegisterMetrics creates the server's prometheus collectors and
// installs them as the process-wide observability hooks. Call it once,
// before Handler; without it /metrics serves the default registry.
func (s *Server) RegisterMetrics() {
	s.registry = prometheus.NewRegistry()
	s.metrics = newMetrics(s.registry)
	observability.SetEmitterHooks(s.metrics)
	observability.SetCacheHooks(s.metrics)
}

// Handler returns the server's HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Post("/api/render", s.handleRender)
	r.Get("/r/{id}", s.handleArtifact)
	r.Get("/healthz", s.handleHealth)
	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	} else {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// renderResponse points the client at a stored artifact.
type renderResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Format string `json:"format"`
}

// errorResponse carries the machine-readable code alongside the message.
type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// handleRender renders the request body and stores the artifact. The
// response is the artifact's id and URL, or the image bytes directly
// when the request prefers an image content type.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		s.writeError(w, http.StatusBadRequest,
			errors.Wrap(errors.ErrCodeInvalidWaveJSON, err, "read request body"))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	if format != "svg" && format != "png" {
		s.writeError(w, http.StatusBadRequest,
			errors.New(errors.ErrCodeUnsupported, "unknown format %q (valid: svg, png)", format))
		return
	}

	dpi := s.dpi
	if q := r.URL.Query().Get("dpi"); q != "" {
		v, err := strconv.ParseFloat(q, 64)
		if err != nil || v <= 0 || v > maxRequestDPI {
			s.writeError(w, http.StatusBadRequest,
				errors.New(errors.ErrCodeInvalidConfig, "dpi must be in (0, %d], got %q", maxRequestDPI, q))
			return
		}
		dpi = v
	}

	skin := s.skin
	if q := r.URL.Query().Get("skin"); q != "" {
		if err := errors.ValidateSkin(q); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		skin = q
	}

	doc, err := wavejson.ParseString(string(body))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	doc = doc.WithDefaultSkin(skin)

	id := uuid.NewString()
	data, contentType, err := s.render(ctx, id, doc, format, dpi)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err)
		return
	}

	s.store.Put(id, artifact{
		Data:        data,
		ContentType: contentType,
		Format:      format,
		CreatedAt:   time.Now(),
	})

	if wantsImage(r) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Write(data)
		return
	}
	s.writeJSON(w, http.StatusOK, renderResponse{ID: id, URL: "/r/" + id, Format: format})
}

// render produces the artifact bytes for one request, consulting the
// artifact cache the same way the emitter does.
func (s *Server) render(ctx context.Context, id string, doc wavejson.Document, format string, dpi float64) ([]byte, string, error) {
	contentType := "image/svg+xml"
	if format == "png" {
		contentType = "image/png"
	}

	docHash := cache.Hash([]byte(doc.String()))
	key := s.keyer.ArtifactKey(docHash, s.artifactOpts(format, dpi))

	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		s.logger.Debug("artifact cache hit", "id", id, "format", format)
		return data, contentType, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	hooks := observability.Emitter()

	hooks.OnRenderStart(ctx, id, 0)
	renderStart := time.Now()
	svg, rerr := s.renderer.Render(doc)
	hooks.OnRenderComplete(ctx, id, 0, time.Since(renderStart), rerr)
	if rerr != nil {
		s.logger.Error("wavedrom render failed", "id", id, "err", rerr)
		return nil, "", rerr
	}

	// Restyle failures degrade to the renderer's own styling; the
	// un-normalized artifact is served but never cached.
	restyled := true
	if out, err := restyle.Apply(svg, s.restyle); err != nil {
		restyled = false
		s.logger.Error("could not restyle diagram", "id", id, "err", err)
	} else {
		svg = out
	}

	data := svg
	if format == "png" {
		hooks.OnConvertStart(ctx, id, 0)
		convertStart := time.Now()
		png, cerr := s.convert(svg, dpi)
		hooks.OnConvertComplete(ctx, id, 0, time.Since(convertStart), cerr)
		if cerr != nil {
			s.logger.Error("wavedrom convert failed", "id", id, "err", cerr)
			return nil, "", cerr
		}
		data = png
	}

	if restyled {
		if err := s.cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return data, contentType, nil
}

func (s *Server) artifactOpts(format string, dpi float64) cache.ArtifactKeyOpts {
	o := s.restyle.WithDefaults()
	return cache.ArtifactKeyOpts{
		Format:       format,
		DPI:          dpi,
		FontSize:     o.FontSize,
		TextFill:     o.TextFill,
		Stroke:       o.Stroke,
		FlatRowScale: o.FlatRowScale,
	}
}

// handleArtifact serves a stored artifact by id.
func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound,
			errors.New(errors.ErrCodeArtifactNotFound, "no artifact %q", id))
		return
	}
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	w.Write(a.Data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// wantsImage reports whether the client asked for the image bytes
// directly instead of the JSON pointer response.
func wantsImage(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "image/")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	s.writeJSON(w, status, errorResponse{Code: string(code), Error: errors.UserMessage(err)})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests logs every request and, once RegisterMetrics has run,
// counts it. Probe endpoints log at debug to keep scrapes quiet.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		if s.metrics != nil {
			s.metrics.requests.WithLabelValues(strconv.Itoa(rec.status)).Inc()
		}
		logFn := s.logger.Info
		if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			logFn = s.logger.Debug
		}
		logFn("handled request",
			"method", r.Method, "path", r.URL.Path,
			"status", rec.status, "duration", time.Since(start))
	})
}
