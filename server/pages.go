package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"howmuch-apple/models"
	"howmuch-apple/services"
	"howmuch-apple/storage"
)

type categoryTab struct {
	Key    models.Category
	Label  string
	Active bool
}

// selectField is one <select> of the configuration form.
type selectField struct {
	Name     string
	Label    string
	Groups   []models.OptionGroup
	Selected string
}

type searchPageData struct {
	Tabs         []categoryTab
	Category     models.Category
	Fields       []selectField
	Query        string
	Suggestions  []models.SearchItem
	Region       models.RegionSelection
	Provinces    []string
	Cities       []string
	Districts    []string
	RegionsReady bool
	OptionsReady bool
	Error        string
}

type messagePageData struct {
	Title   string
	Message string
}

type resultsPageData struct {
	ResultsView
	State string
}

// searchPage renders the form. Changing a select reloads this page with GET,
// and the region cascade drops any level that no longer fits its parent.
func (s *Server) searchPage(c *gin.Context) {
	form := services.NewQueryForm(s.directory, false)
	data := searchPageData{
		RegionsReady: s.directory.Ready(),
		OptionsReady: s.catalog.Ready(),
		Query:        c.Query("q"),
	}

	if err := form.SetCategory(c.Query("category")); err != nil {
		data.Error = err.Error()
	}
	data.Category = form.Category()
	for _, cat := range models.Categories {
		data.Tabs = append(data.Tabs, categoryTab{Key: cat, Label: cat.Label(), Active: cat == data.Category})
	}

	if data.Category != "" {
		spec := specFromValues(c.Query)
		data.Fields = fieldsFor(data.Category, s.catalog.For(data.Category), spec.Config)
		data.Suggestions = s.catalog.Models().Search(data.Category, data.Query)
	}

	if data.RegionsReady {
		current := regionFromQuery(c, "")
		if _, ok := c.GetQuery("prev_province"); ok {
			// Rebuild what the page showed, then apply only the level the
			// user changed so the reducer clears everything below it.
			replayRegion(form, regionFromQuery(c, "prev_"))
			s.applyRegionChange(form, current)
		} else {
			replayRegion(form, current)
		}
		data.Region = form.Region()
		data.Provinces = s.directory.Provinces()
		data.Cities = s.directory.Cities(data.Region.Province)
		data.Districts = s.directory.Districts(data.Region.Province, data.Region.City)
	}

	c.HTML(http.StatusOK, "search.html", data)
}

func regionFromQuery(c *gin.Context, prefix string) models.RegionSelection {
	return models.RegionSelection{
		Province: strings.TrimSpace(c.Query(prefix + "province")),
		City:     strings.TrimSpace(c.Query(prefix + "city")),
		District: strings.TrimSpace(c.Query(prefix + "district")),
	}
}

func regionSteps(sel models.RegionSelection) []regionStep {
	return []regionStep{
		{models.LevelProvince, sel.Province},
		{models.LevelCity, sel.City},
		{models.LevelDistrict, sel.District},
	}
}

type regionStep struct {
	level models.RegionLevel
	value string
}

// replayRegion applies sel top-down, stopping at the first empty or invalid level.
func replayRegion(form *services.QueryForm, sel models.RegionSelection) {
	for _, step := range regionSteps(sel) {
		if step.value == "" {
			return
		}
		if err := form.SetRegion(step.level, step.value); err != nil {
			return
		}
	}
}

// applyRegionChange finds the highest level where next differs from the
// form's selection and sets only that one.
func (s *Server) applyRegionChange(form *services.QueryForm, next models.RegionSelection) {
	if next.Province != "" {
		next.Province = s.directory.ResolveProvince(next.Province)
	}
	before := regionSteps(form.Region())
	for i, step := range regionSteps(next) {
		if step.value == before[i].value {
			continue
		}
		// An invalid pick keeps the previous selection.
		_ = form.SetRegion(step.level, step.value)
		return
	}
}

func (s *Server) detailWithoutState(c *gin.Context) {
	c.HTML(http.StatusOK, "message.html", messagePageData{
		Title:   "검색 정보가 없습니다",
		Message: "처음 화면에서 다시 검색해 주세요.",
	})
}

func (s *Server) detailSubmit(c *gin.Context) {
	q, err := s.bindQuery(specFromValues(c.PostForm))
	if err != nil {
		s.renderFailure(c, err)
		return
	}

	res, err := s.analyze(c, q)
	if errors.Is(err, errStale) {
		c.Abort()
		return
	}
	if err != nil {
		s.logger.Warn("[http] Analysis for %s failed: %v", q.ModelName(), err)
		s.renderFailure(c, err)
		return
	}
	s.renderResults(c, ViewState{Query: q, Result: res, Page: 1})
}

// detailView re-renders from the carried state. "toggle" flips a column's
// sort order; "page" moves the listings pager.
func (s *Server) detailView(c *gin.Context) {
	state, err := DecodeViewState(c.PostForm("state"))
	if err != nil {
		if !errors.Is(err, errNoState) {
			s.logger.Warn("[http] Bad view state: %v", err)
		}
		s.detailWithoutState(c)
		return
	}

	if col := c.PostForm("toggle"); col != "" {
		state.Sort = state.Sort.Toggle(services.ParseSortColumn(col))
		state.Page = 1
	}
	if p, err := strconv.Atoi(c.PostForm("page")); err == nil {
		state.Page = p
	}
	s.renderResults(c, state)
}

func (s *Server) detailExport(c *gin.Context) {
	state, err := DecodeViewState(c.PostForm("state"))
	if err != nil {
		c.String(http.StatusBadRequest, "no results to export")
		return
	}

	name := strings.ReplaceAll(state.Result.Summary.Model, " ", "-")
	if name == "" {
		name = "analysis"
	}
	filename := fmt.Sprintf("howmuch-%s.csv", name)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Status(http.StatusOK)
	if err := storage.WriteAnalysisCSV(c.Writer, state.Result); err != nil {
		s.logger.Error("[http] CSV export failed: %v", err)
	}
}

func (s *Server) renderResults(c *gin.Context, state ViewState) {
	view := BuildResultsView(state)
	state.Page = view.Listings.Number
	encoded, err := state.Encode()
	if err != nil {
		s.renderFailure(c, err)
		return
	}
	c.HTML(http.StatusOK, "results.html", resultsPageData{ResultsView: view, State: encoded})
}

func (s *Server) renderFailure(c *gin.Context, err error) {
	f := classify(err)
	c.HTML(f.Status, "message.html", messagePageData{Title: f.Title, Message: f.Message})
}

var fieldLabels = map[string]string{
	models.KeyModel:        "모델",
	models.KeyMacBookModel: "모델",
	models.KeySeries:       "시리즈",
	models.KeyStorage:      "용량",
	models.KeyColor:        "색상",
	models.KeyConnection:   "연결",
	models.KeyChipset:      "칩셋",
	models.KeyRAM:          "메모리",
	models.KeySSD:          "SSD",
	models.KeySize:         "크기",
	models.KeyMaterial:     "소재",
}

// fieldsFor lists the selects of a category in form order.
func fieldsFor(cat models.Category, o models.CategoryOptions, config map[string]string) []selectField {
	flat := func(values []string) []models.OptionGroup {
		if len(values) == 0 {
			return nil
		}
		return []models.OptionGroup{{Options: values}}
	}

	var fields []selectField
	for _, key := range models.ConfigKeys[cat] {
		var groups []models.OptionGroup
		switch key {
		case models.KeyModel:
			groups = o.ModelGroups
			if len(groups) == 0 {
				groups = flat(o.Models)
			}
		case models.KeyMacBookModel:
			groups = flat(o.Models)
		case models.KeySeries:
			groups = flat(o.Series)
		case models.KeyStorage:
			groups = flat(o.Storages)
		case models.KeyColor:
			groups = flat(o.Colors)
		case models.KeyConnection:
			groups = flat(o.Connections)
		case models.KeyChipset:
			groups = o.ChipsetGroups
		case models.KeyRAM:
			groups = flat(o.RAMs)
		case models.KeySSD:
			groups = flat(o.SSDs)
		case models.KeySize:
			groups = flat(o.Sizes)
		case models.KeyMaterial:
			groups = flat(o.Materials)
		}
		fields = append(fields, selectField{
			Name:     key,
			Label:    fieldLabels[key],
			Groups:   groups,
			Selected: config[key],
		})
	}
	return fields
}
