package results

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Server exposes the results of the collector over http while the
// comparison runs
type Server struct {
	Port int

	collector *Collector
	server    *http.Server
	engine    *gin.Engine

	lock *sync.Mutex
	info map[string]interface{}
}

func NewServer(port int, collector *Collector) *Server {
	s := &Server{
		Port:      port,
		collector: collector,
		lock:      new(sync.Mutex),
		info:      make(map[string]interface{}),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/experiment", s.handleExperiment)
	r.GET("/agents", s.handleAgents)
	r.GET("/agents/:name", s.handleAgent)
	r.GET("/times", s.handleTimes)
	s.engine = r
	s.server = &http.Server{
		Addr:    fmt.Sprintf("localhost:%d", port),
		Handler: r,
	}
	return s
}

// SetInfo adds a key to the experiment description
func (s *Server) SetInfo(key string, val interface{}) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.info[key] = val
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until the context is cancelled
func (s *Server) Start(ctx context.Context) {
	go func() {
		s.server.ListenAndServe()
	}()

	go func() {
		<-ctx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.server.Shutdown(sCtx)
	}()
}

func (s *Server) handleExperiment(c *gin.Context) {
	out := gin.H{
		"agents":    s.collector.Agents(),
		"finalized": s.collector.Finalized(),
	}
	s.lock.Lock()
	for k, v := range s.info {
		out[k] = v
	}
	s.lock.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleAgents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"agents": s.collector.Agents()})
}

func (s *Server) handleAgent(c *gin.Context) {
	name := c.Param("name")
	if !s.collector.Has(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown agent"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"agent":    name,
		"episodes": s.collector.Summary(name),
		"totals":   s.collector.Totals(name),
	})
}

func (s *Server) handleTimes(c *gin.Context) {
	times := s.collector.Times()
	out := make([]gin.H, 0, len(times))
	for _, name := range sortedAgents(times) {
		out = append(out, gin.H{"agent": name, "seconds": times[name].Seconds()})
	}
	c.JSON(http.StatusOK, gin.H{"times": out})
}
