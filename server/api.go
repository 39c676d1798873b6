package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"howmuch-apple/models"
	"howmuch-apple/services"
)

func (s *Server) apiRegions(c *gin.Context) {
	if !s.directory.Ready() {
		s.jsonFailure(c, s.directory.Err())
		return
	}
	c.JSON(http.StatusOK, s.directory.All())
}

// apiRegionOptions lists the children of the deepest level given: provinces
// with no parameters, cities of a province, or districts of a city.
func (s *Server) apiRegionOptions(c *gin.Context) {
	if !s.directory.Ready() {
		s.jsonFailure(c, s.directory.Err())
		return
	}
	sel := models.RegionSelection{
		Province: s.directory.ResolveProvince(c.Query("province")),
		City:     c.Query("city"),
	}
	if sel.City != "" && sel.Province == "" {
		s.jsonFailure(c, services.ErrRegionOrder)
		return
	}
	if err := s.directory.Validate(sel); err != nil {
		s.jsonFailure(c, err)
		return
	}

	level, options := models.LevelProvince, s.directory.Provinces()
	switch {
	case sel.City != "":
		level, options = models.LevelDistrict, s.directory.Districts(sel.Province, sel.City)
	case sel.Province != "":
		level, options = models.LevelCity, s.directory.Cities(sel.Province)
	}
	c.JSON(http.StatusOK, gin.H{"level": level, "options": options})
}

func (s *Server) apiDeviceOptions(c *gin.Context) {
	if !s.catalog.Ready() {
		s.jsonFailure(c, s.catalog.Err())
		return
	}
	c.JSON(http.StatusOK, s.catalog.Options())
}

func (s *Server) apiModels(c *gin.Context) {
	if !s.catalog.Ready() {
		s.jsonFailure(c, s.catalog.Err())
		return
	}
	cat, _ := models.ParseCategory(c.Query("category"))
	c.JSON(http.StatusOK, s.catalog.Models().Search(cat, c.Query("q")))
}

// apiAnalysis runs one query and returns the derived view. sort, dir and page
// pick the table order and the listings page.
func (s *Server) apiAnalysis(c *gin.Context) {
	var spec models.QuerySpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body", "message": err.Error()})
		return
	}
	q, err := s.bindQuery(spec)
	if err != nil {
		s.jsonFailure(c, err)
		return
	}

	res, err := s.analyze(c, q)
	if errors.Is(err, errStale) {
		c.Abort()
		return
	}
	if err != nil {
		s.logger.Warn("[api] Analysis for %s failed: %v", q.ModelName(), err)
		s.jsonFailure(c, err)
		return
	}

	state := ViewState{
		Query:  q,
		Result: res,
		Sort: services.DistrictSort{
			Column:     services.ParseSortColumn(c.Query("sort")),
			Descending: c.Query("dir") == "desc",
		},
		Page: 1,
	}
	if p, err := strconv.Atoi(c.Query("page")); err == nil {
		state.Page = p
	}
	c.JSON(http.StatusOK, gin.H{
		"result": res,
		"view":   BuildResultsView(state),
	})
}

func (s *Server) jsonFailure(c *gin.Context, err error) {
	f := classify(err)
	c.JSON(f.Status, f)
}
