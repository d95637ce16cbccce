package api

import (
	"context"
	"log"
	"net/http"

	"github.com/LJTian/NewsRelay/internal/news"
	"github.com/LJTian/NewsRelay/internal/service"
	"github.com/gin-gonic/gin"
)

// Service 各操作的编排层
type Service interface {
	Listing(ctx context.Context) (service.Result, error)
	Story(ctx context.Context, raw string) (service.Result, error)
	Category(ctx context.Context, raw string) (service.Result, error)
	Search(ctx context.Context, raw string) (service.Result, error)
}

type Server struct {
	svc Service
}

func NewServer(svc Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/news", s.listNews)
		v1.GET("/story", s.story)
		v1.GET("/category", s.category)
		v1.GET("/search", s.search)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listNews(c *gin.Context) {
	res, err := s.svc.Listing(c.Request.Context())
	s.respond(c, opListing, res, err)
}

func (s *Server) story(c *gin.Context) {
	res, err := s.svc.Story(c.Request.Context(), c.Query("historia"))
	s.respond(c, opStory, res, err)
}

func (s *Server) category(c *gin.Context) {
	res, err := s.svc.Category(c.Request.Context(), c.Query("query"))
	s.respond(c, opCategory, res, err)
}

func (s *Server) search(c *gin.Context) {
	res, err := s.svc.Search(c.Request.Context(), c.Query("query"))
	s.respond(c, opSearch, res, err)
}

func (s *Server) respond(c *gin.Context, op string, res service.Result, err error) {
	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"code":    "ok",
			"message": "success",
			"data":    res,
		})
		return
	}

	kind := news.KindOf(err)
	// 空查询是用户输入问题，不算系统错误
	if kind != news.KindBlankQuery {
		log.Printf("api %s: %v", op, err)
	}
	n := noticeFor(op, kind)
	c.JSON(statusFor(kind), gin.H{
		"code":    string(kind),
		"message": n.Header,
		"data": gin.H{
			"template": service.TemplateMessage,
			"header":   n.Header,
			"text":     n.Text,
		},
	})
}

func statusFor(kind news.Kind) int {
	switch kind {
	case news.KindBlankQuery:
		return http.StatusBadRequest
	case news.KindArticleNotFound, news.KindNoResults:
		return http.StatusNotFound
	case news.KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
