// Package server exposes the latest sampler frame over HTTP: a health check,
// a JSON status summary, the strip as PNG and Prometheus metrics.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rileyhilliard/pingstrip/internal/errors"
	"github.com/rileyhilliard/pingstrip/internal/graph"
	"github.com/rileyhilliard/pingstrip/internal/logger"
	"github.com/rileyhilliard/pingstrip/internal/sampler"
)

// MaxScale bounds the ?scale= query parameter on /graph.png.
const MaxScale = 16

// FrameSource provides the most recently published frame, nil before the
// first probe completes. *sampler.Scheduler satisfies it.
type FrameSource interface {
	Frame() *sampler.Frame
}

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// StatusResponse summarizes one frame.
type StatusResponse struct {
	Target      string     `json:"target"`
	Status      string     `json:"status"`
	LatestMs    *float64   `json:"latest_ms"`
	Failed      bool       `json:"failed"`
	Seq         uint64     `json:"seq"`
	Sent        uint64     `json:"sent"`
	Lost        uint64     `json:"lost"`
	LossPercent float64    `json:"loss_percent"`
	BestMs      float64    `json:"best_ms"`
	WorstMs     float64    `json:"worst_ms"`
	MeanMs      float64    `json:"mean_ms"`
	StdDevMs    float64    `json:"stddev_ms"`
	Dropped     uint64     `json:"dropped"`
	Samples     []*float64 `json:"samples"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// Server is the HTTP host.
type Server struct {
	engine   *echo.Echo
	source   FrameSource
	gatherer prometheus.Gatherer
	log      logger.Logger
}

// New builds the server and its routes. A nil gatherer leaves /metrics
// unregistered.
func New(source FrameSource, gatherer prometheus.Gatherer, log logger.Logger) *Server {
	if log == nil {
		log = logger.Noop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		engine:   e,
		source:   source,
		gatherer: gatherer,
		log:      log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.Use(middleware.Recover())
	s.engine.Use(s.requestLogger)

	s.engine.GET("/healthz", s.health)
	s.engine.GET("/status", s.status)
	s.engine.GET("/graph.png", s.graph)
	if s.gatherer != nil {
		s.engine.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on addr and blocks until the server stops. A clean Shutdown
// returns nil.
func (s *Server) Start(addr string) error {
	s.log.Info("serving on http://%s", addr)
	if err := s.engine.Start(addr); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return errors.WrapWithCode(err, errors.ErrServe,
			"Failed to start HTTP server on "+addr,
			"Check the address is free, or pick another with --listen")
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.engine.Shutdown(ctx)
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		s.log.Debug("%s %s %d %s", c.Request().Method, c.Request().URL.Path, c.Response().Status, time.Since(start).Round(time.Microsecond))
		return err
	}
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(c echo.Context) error {
	return c.JSON(http.StatusOK, NewStatusResponse(s.source.Frame()))
}

func (s *Server) graph(c echo.Context) error {
	scale := 1
	if raw := c.QueryParam("scale"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxScale {
			return errorJSON(c, http.StatusBadRequest, "scale must be an integer from 1 to "+strconv.Itoa(MaxScale))
		}
		scale = n
	}

	f := s.source.Frame()
	if f == nil || f.Image == nil {
		return errorJSON(c, http.StatusServiceUnavailable, "no probe has completed yet")
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "image/png")
	res.Header().Set(echo.HeaderCacheControl, "no-store")
	res.WriteHeader(http.StatusOK)
	return graph.EncodePNG(res, f.Image, scale)
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, ErrorResponse{Success: false, Error: msg})
}

// NewStatusResponse converts a frame into its JSON form. A nil frame yields
// the pending status with no samples.
func NewStatusResponse(f *sampler.Frame) StatusResponse {
	resp := StatusResponse{
		Status:  f.Status(),
		Samples: []*float64{},
	}
	if f == nil {
		return resp
	}

	resp.Target = f.Target
	resp.Seq = f.Seq
	resp.Failed = f.Latest.Failed()
	resp.LatestMs = millis(f.Latest.Milliseconds())
	resp.Sent = f.Stats.Sent
	resp.Lost = f.Stats.Lost
	resp.LossPercent = f.Stats.LossPercent()
	resp.BestMs = f.Stats.Best
	resp.WorstMs = f.Stats.Worst
	resp.MeanMs = f.Stats.Mean
	resp.StdDevMs = f.Stats.StdDev()
	resp.Dropped = f.Dropped
	at := f.At
	resp.UpdatedAt = &at

	resp.Samples = make([]*float64, len(f.Samples))
	for i, m := range f.Samples {
		resp.Samples[i] = millis(m.Milliseconds())
	}
	return resp
}

func millis(ms float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &ms
}
