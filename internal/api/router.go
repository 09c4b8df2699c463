// Package api serves reader sessions over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Sternrassler/hn-reader/pkg/logging"
	"github.com/Sternrassler/hn-reader/pkg/metrics"
	"github.com/Sternrassler/hn-reader/pkg/session"
	"github.com/Sternrassler/hn-reader/pkg/view"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Sessions is the session API used by the handlers. *session.Manager
// implements it.
type Sessions interface {
	Create(ctx context.Context) (*session.Session, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	LoadMore(ctx context.Context, id string) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}

// SessionResponse is the JSON body of every session endpoint.
type SessionResponse struct {
	ID          string     `json:"id"`
	Stories     []view.Row `json:"stories"`
	Remaining   int        `json:"remaining"`
	CanLoadMore bool       `json:"can_load_more"`
	Notice      string     `json:"notice,omitempty"`
	ExpiresAt   time.Time  `json:"expires_at"`
}

// Server holds the handler dependencies.
type Server struct {
	sessions Sessions
	now      func() time.Time
	logger   zerolog.Logger
}

// NewServer creates the API server.
func NewServer(sessions Sessions) *Server {
	return &Server{
		sessions: sessions,
		now:      time.Now,
		logger:   logging.NewLogger("api"),
	}
}

// NewRouter returns a gin engine with middleware and all routes registered.
func (s *Server) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), requestMetrics())
	s.RegisterRoutes(r)
	return r
}

// RegisterRoutes adds the routes to r.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/sessions", s.createSession)
		v1.GET("/sessions/:id", s.getSession)
		v1.POST("/sessions/:id/more", s.loadMore)
		v1.DELETE("/sessions/:id", s.deleteSession)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) createSession(c *gin.Context) {
	sess, err := s.sessions.Create(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.render(sess))
}

func (s *Server) getSession(c *gin.Context) {
	sess, err := s.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.render(sess))
}

func (s *Server) loadMore(c *gin.Context) {
	sess, err := s.sessions.LoadMore(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.render(sess))
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// render builds the response for the session's visible window.
func (s *Server) render(sess *session.Session) SessionResponse {
	page := sess.Page()
	return SessionResponse{
		ID:          sess.ID,
		Stories:     view.BuildRows(page.Stories, s.now()),
		Remaining:   page.Remaining,
		CanLoadMore: page.CanLoadMore,
		Notice:      sess.Notice,
		ExpiresAt:   sess.ExpiresAt,
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "not_found",
			"message": "session not found or expired",
		})
		return
	}

	s.logger.Error().Err(err).Str("path", c.FullPath()).Msg("Session request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    "internal_error",
		"message": "internal server error",
	})
}
