// Package server exposes the HTTP surface: a health probe, the company
// data endpoint, and the WebSocket research endpoint. Authentication is a
// shared API key; the data endpoint reads it from the X-API-Key header,
// the WebSocket protocol carries it in the start message.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/venturescope/venturescope/companydata"
	"github.com/venturescope/venturescope/logging"
	"github.com/venturescope/venturescope/session"
)

// Options holds configuration overrides passed to New().
type Options struct {
	// APIKeys lists the accepted client keys. Empty disables auth.
	APIKeys []string
	// Logger receives request-level records.
	Logger logging.Logger
}

// Server routes HTTP traffic to the session manager and the data store.
type Server struct {
	router   *gin.Engine
	sessions *session.Manager
	data     *companydata.Store
	apiKeys  map[string]bool
	upgrader websocket.Upgrader
	logger   logging.Logger
}

// New constructs the server and its routes.
func New(sessions *session.Manager, data *companydata.Store, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	keys := make(map[string]bool, len(opts.APIKeys))
	for _, k := range opts.APIKeys {
		keys[k] = true
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		router:   gin.New(),
		sessions: sessions,
		data:     data,
		apiKeys:  keys,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: opts.Logger,
	}
	s.router.Use(gin.Recovery())

	s.router.GET("/", s.handleHealth)
	s.router.POST("/getData", s.requireAPIKey, s.handleGetData)
	s.router.GET("/ws/research", s.handleResearch)
	return s
}

// Handler returns the root HTTP handler for mounting or serving.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "venturescope"})
}

// requireAPIKey guards the data endpoint. A missing key and a wrong key
// are distinct failures so clients can tell configuration from typos.
func (s *Server) requireAPIKey(c *gin.Context) {
	if len(s.apiKeys) == 0 {
		return
	}
	key := c.GetHeader("X-API-Key")
	if key == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "API key required"})
		return
	}
	if !s.apiKeys[key] {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "invalid API key"})
		return
	}
}

type getDataRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
}

func (s *Server) handleGetData(c *gin.Context) {
	var req getDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "company_name is required"})
		return
	}
	c.JSON(http.StatusOK, s.data.Get(req.CompanyName))
}

func (s *Server) handleResearch(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	s.sessions.Handle(conn)
}
