package ui

import (
	"gridlens/adapters/tabular"
	"gridlens/internal"
	"gridlens/internal/config"
	"gridlens/internal/session"

	"github.com/gin-gonic/gin"
)

// Server is the HTTP surface of gridlens. Each endpoint is one of the
// viewer's peer views: summary cards, charts, the table, the query
// panel, and the narrative summary. They all read the same immutable
// dataset and derive their own view of it per request.
type Server struct {
	router *gin.Engine
	store  *session.Store
	reader *tabular.Reader
	cfg    config.Config
	log    *internal.Logger
}

// NewServer creates a server wired to an in-memory dataset store.
func NewServer(cfg config.Config) *Server {
	gin.SetMode(cfg.Server.GinMode)

	reader := tabular.NewReader()
	if cfg.Data.TypeSampleRows > 0 {
		reader.SampleRows = cfg.Data.TypeSampleRows
	}

	s := &Server{
		router: gin.Default(),
		store:  session.NewStore(),
		reader: reader,
		cfg:    cfg,
		log:    internal.DefaultLogger,
	}
	s.router.MaxMultipartMemory = cfg.Data.MaxUploadBytes
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/datasets", s.handleUpload)
		api.GET("/datasets", s.handleListDatasets)
		api.GET("/datasets/:id/summary", s.handleSummary)
		api.GET("/datasets/:id/profile", s.handleProfile)
		api.GET("/datasets/:id/charts", s.handleCharts)
		api.GET("/datasets/:id/table", s.handleTable)
		api.GET("/datasets/:id/narrative", s.handleNarrative)
		api.POST("/datasets/:id/query", s.handleQuery)
	}
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the HTTP server on the configured port.
func (s *Server) Start() error {
	s.log.Info("gridlens listening on :%s", s.cfg.Server.Port)
	return s.router.Run(":" + s.cfg.Server.Port)
}
