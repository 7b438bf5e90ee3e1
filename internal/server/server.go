// Package server is a fake catalog service used by the easyapi demo. It
// serves a fixed dataset with artificial latency so that loading states,
// cache hits and supersession are visible.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/probablyarth/easyapi-go/internal/catalog"
)

// Stats reports how many requests each route has served.
type Stats struct {
	Requests map[string]int `json:"requests"`
}

// Server serves the catalog over HTTP.
type Server struct {
	e       *echo.Echo
	latency time.Duration
	log     zerolog.Logger

	mu       sync.Mutex
	requests map[string]int
}

// New builds a Server. Every catalog response is delayed by latency unless
// the client goes away first.
func New(latency time.Duration, log zerolog.Logger) *Server {
	s := &Server{
		e:        echo.New(),
		latency:  latency,
		log:      log.With().Str("component", "server").Logger(),
		requests: make(map[string]int),
	}
	s.e.HideBanner = true
	s.e.HidePort = true

	s.e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	s.e.GET("/stats", s.handleStats)

	api := s.e.Group("/products", s.count, s.delay)
	api.GET("/categories", s.handleCategories)
	api.GET("/category/:slug", s.handleProducts)
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Dur("latency", s.latency).Msg("catalog server listening")
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// Requests returns the number of requests served for route, e.g.
// "/products/category/:slug".
func (s *Server) Requests(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[route]
}

// count records each request by route pattern.
func (s *Server) count(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.requests[c.Path()]++
		s.mu.Unlock()
		s.log.Debug().Str("route", c.Path()).Str("uri", c.Request().RequestURI).Msg("request")
		return next(c)
	}
}

// delay holds the response back, giving up early if the client cancels.
func (s *Server) delay(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.latency <= 0 {
			return next(c)
		}
		t := time.NewTimer(s.latency)
		defer t.Stop()
		select {
		case <-t.C:
			return next(c)
		case <-c.Request().Context().Done():
			s.log.Debug().Str("uri", c.Request().RequestURI).Msg("client went away")
			return c.Request().Context().Err()
		}
	}
}

func (s *Server) handleCategories(c echo.Context) error {
	base := c.Scheme() + "://" + c.Request().Host + "/products/category/"
	out := make([]catalog.Category, len(categories))
	for i, cat := range categories {
		cat.URL = base + cat.Slug
		out[i] = cat
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleProducts(c echo.Context) error {
	slug := c.Param("slug")
	if !knownCategory(slug) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown category "+slug)
	}
	items := productsIn(slug)
	return c.JSON(http.StatusOK, catalog.ProductPage{
		Products: items,
		Total:    len(items),
		Limit:    len(items),
	})
}

func (s *Server) handleStats(c echo.Context) error {
	s.mu.Lock()
	stats := Stats{Requests: make(map[string]int, len(s.requests))}
	for k, v := range s.requests {
		stats.Requests[k] = v
	}
	s.mu.Unlock()
	return c.JSON(http.StatusOK, stats)
}
