package server

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"howmuch-apple/metrics"
	"howmuch-apple/models"
	"howmuch-apple/services"
)

var formConfigKeys = []string{
	models.KeyModel, models.KeyMacBookModel, models.KeySeries,
	models.KeyStorage, models.KeyColor, models.KeyConnection,
	models.KeyChipset, models.KeyRAM, models.KeySSD, models.KeySize, models.KeyMaterial,
}

// specFromValues reads a QuerySpec from form or query values. The generic
// "model" field is moved to the category's primary key.
func specFromValues(get func(string) string) models.QuerySpec {
	spec := models.QuerySpec{
		Category: models.Category(strings.TrimSpace(get("category"))),
		Config:   make(map[string]string),
		Region: models.RegionSelection{
			Province: strings.TrimSpace(get("province")),
			City:     strings.TrimSpace(get("city")),
			District: strings.TrimSpace(get("district")),
		},
	}
	for _, key := range formConfigKeys {
		if v := strings.TrimSpace(get(key)); v != "" {
			spec.Config[key] = v
		}
	}
	if cat, ok := models.ParseCategory(string(spec.Category)); ok {
		spec.Config = services.PromoteModelKey(cat, spec.Config)
	}
	return spec
}

// bindQuery validates a spec the same way the search form does.
func (s *Server) bindQuery(spec models.QuerySpec) (models.QuerySpec, error) {
	var dir *services.RegionDirectory
	if !spec.Region.Empty() || s.requireRegion {
		dir = s.directory
	}
	return services.BindQuerySpec(spec, dir, s.requireRegion)
}

// analyze fetches a result for q. The fetch is not cancelled when the client
// disconnects; instead a result that arrives after the request ended is
// dropped and errStale is returned.
func (s *Server) analyze(c *gin.Context, q models.QuerySpec) (*models.PriceAnalysisResult, error) {
	reqCtx := c.Request.Context()
	res, err := s.analyzer.FetchPriceAnalysis(context.WithoutCancel(reqCtx), services.BuildRequest(q))
	if reqCtx.Err() != nil {
		metrics.RecordStale()
		s.logger.Debug("[http] Dropping stale result for %s (id=%s)", q.ModelName(), c.GetString(requestIDKey))
		return nil, errStale
	}
	return res, err
}
