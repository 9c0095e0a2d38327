package statuslist

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"onyx/pkg/credential"
	"onyx/pkg/logger"
)

// Server is a minimal gin-backed StatusList2021 publication endpoint: GET
// /list.json returns the current list credential, POST /statusList
// replaces it. It is the reference counterpart to HTTPFetcher, used by the
// CLI demo and by integration tests via httptest.NewServer.
type Server struct {
	mu  sync.Mutex
	cur credential.Payload
	log *logger.Log
}

// NewServer seeds a Server with an initial StatusList2021 credential.
func NewServer(initial credential.Payload, log *logger.Log) *Server {
	return &Server{cur: initial, log: log}
}

// Engine builds the gin.Engine exposing this Server's routes.
func (s *Server) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/list.json", s.getList)
	r.POST("/statusList", s.postList)
	return r
}

func (s *Server) getList(c *gin.Context) {
	s.mu.Lock()
	cur := s.cur
	s.mu.Unlock()
	c.JSON(http.StatusOK, cur)
}

func (s *Server) postList(c *gin.Context) {
	var vc credential.Payload
	if err := c.ShouldBindJSON(&vc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	s.cur = vc
	s.mu.Unlock()

	if s.log != nil {
		s.log.Debug("status list updated")
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
