// Package server exposes the price lookup over HTTP: server-rendered pages
// for browsers and a JSON API for scripts.
package server

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"howmuch-apple/services"
	"howmuch-apple/utils"
)

// Options wires the server to its collaborators.
type Options struct {
	Directory     *services.RegionDirectory
	Catalog       *services.DeviceCatalog
	Analyzer      services.PriceAnalyzer
	Mode          string
	RequireRegion bool
	Logger        *utils.Logger
}

type Server struct {
	directory     *services.RegionDirectory
	catalog       *services.DeviceCatalog
	analyzer      services.PriceAnalyzer
	mode          string
	requireRegion bool
	logger        *utils.Logger
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = utils.Discard()
	}
	return &Server{
		directory:     opts.Directory,
		catalog:       opts.Catalog,
		analyzer:      opts.Analyzer,
		mode:          opts.Mode,
		requireRegion: opts.RequireRegion,
		logger:        logger,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(s.logger), gin.Recovery())
	r.SetHTMLTemplate(template.Must(parseTemplates()))

	r.GET("/", s.searchPage)
	r.GET("/detail", s.detailWithoutState)
	r.POST("/detail", s.detailSubmit)
	r.POST("/detail/view", s.detailView)
	r.POST("/detail/export.csv", s.detailExport)

	api := r.Group("/api")
	api.GET("/regions", s.apiRegions)
	api.GET("/regions/options", s.apiRegionOptions)
	api.GET("/device-options", s.apiDeviceOptions)
	api.GET("/models", s.apiModels)
	api.POST("/analysis", s.apiAnalysis)

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"mode":          s.mode,
		"regions":       s.directory.Ready(),
		"deviceOptions": s.catalog.Ready(),
	})
}
