// Package web exposes the digest archive and on-demand generation over HTTP.
package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"NewsDigest/internal/digest"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

// Runner triggers a full digest generation pass.
type Runner interface {
	Run(ctx context.Context, now time.Time) (domain.Digest, error)
}

// Server serves the read-only API plus a manual generation trigger.
type Server struct {
	archive ports.ArchiveIndex
	repo    ports.DigestRepository
	feeds   []domain.FeedSource
	runner  Runner
	logger  *zap.SugaredLogger
}

// NewServer wires the API handlers.
func NewServer(archive ports.ArchiveIndex, repo ports.DigestRepository, feeds []domain.FeedSource, runner Runner, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Server{archive: archive, repo: repo, feeds: feeds, runner: runner, logger: logger}
}

// RegisterRoutes attaches all endpoints to the engine.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/digests", s.listDigests)
		v1.GET("/digests/:date", s.getDigest)
		v1.GET("/feeds", s.listFeeds)
		v1.POST("/generate", s.generate)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listDigests(c *gin.Context) {
	entries, err := s.archive.List(c.Request.Context())
	if err != nil {
		s.logger.Errorw("archive list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    entries,
	})
}

func (s *Server) getDigest(c *gin.Context) {
	date := c.Param("date")

	dg, err := s.repo.Load(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    "not_found",
				"message": "no digest for " + date,
			})
			return
		}
		s.logger.Errorw("digest load failed", "date", date, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "bad_request",
			"message": "invalid digest date",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data": gin.H{
			"topic":        dg.Topic,
			"generated_at": dg.GeneratedAt,
			"groups":       digest.GroupBySource(dg.Articles),
		},
	})
}

func (s *Server) listFeeds(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    s.feeds,
	})
}

func (s *Server) generate(c *gin.Context) {
	dg, err := s.runner.Run(c.Request.Context(), time.Now())
	if err != nil {
		s.logger.Errorw("manual digest run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "digest generation failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data": gin.H{
			"date":     dg.DateKey(),
			"topic":    dg.Topic,
			"articles": len(dg.Articles),
		},
	})
}
