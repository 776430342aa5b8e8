package ui

import (
	"net/http"
	"strconv"

	"gridlens/domain/dataset"
	"gridlens/internal/chart"
	"gridlens/internal/dataview"
	apperrors "gridlens/internal/errors"
	"gridlens/internal/insight"
	"gridlens/internal/profile"
	"gridlens/internal/query"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "datasets": s.store.Len()})
}

// handleUpload accepts a multipart CSV/XLSX file, parses it into an
// immutable dataset, and makes it the current one.
func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		s.renderError(c, apperrors.InvalidInput("request must include a \"file\" form field"))
		return
	}
	if fileHeader.Size > s.cfg.Data.MaxUploadBytes {
		s.renderError(c, apperrors.InvalidInput("uploaded file is too large"))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		s.renderError(c, apperrors.Wrap(err, "failed to open uploaded file"))
		return
	}
	defer src.Close()

	ds, err := s.reader.Read(src, fileHeader.Filename)
	if err != nil {
		s.renderError(c, err)
		return
	}
	s.store.Put(ds)

	s.log.Info("uploaded dataset %s (%s): %d rows, %d columns",
		ds.ID, ds.Name, ds.RowCount(), ds.ColumnCount())

	c.JSON(http.StatusCreated, gin.H{
		"id":      ds.ID,
		"name":    ds.Name,
		"rows":    ds.RowCount(),
		"columns": ds.ColumnCount(),
		"headers": ds.Headers,
		"types":   ds.Types,
	})
}

func (s *Server) handleListDatasets(c *gin.Context) {
	all := s.store.List()
	out := make([]gin.H, 0, len(all))
	for _, ds := range all {
		out = append(out, gin.H{
			"id":         ds.ID,
			"name":       ds.Name,
			"rows":       ds.RowCount(),
			"columns":    ds.ColumnCount(),
			"uploadedAt": ds.UploadedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"datasets": out, "count": len(out)})
}

func (s *Server) handleSummary(c *gin.Context) {
	ds, prof, ok := s.datasetProfile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dataset": gin.H{"id": ds.ID, "name": ds.Name, "uploadedAt": ds.UploadedAt},
		"summary": prof.Summary,
	})
}

func (s *Server) handleProfile(c *gin.Context) {
	_, prof, ok := s.datasetProfile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, prof)
}

func (s *Server) handleCharts(c *gin.Context) {
	ds, prof, ok := s.datasetProfile(c)
	if !ok {
		return
	}
	configs := chart.Build(ds, prof)
	c.JSON(http.StatusOK, gin.H{"charts": configs, "count": len(configs)})
}

func (s *Server) handleTable(c *gin.Context) {
	ds, ok := s.dataset(c)
	if !ok {
		return
	}

	req := dataview.Request{
		Search:   c.Query("search"),
		SortBy:   c.Query("sortBy"),
		SortDir:  c.DefaultQuery("sortDir", "asc"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 0),
	}
	c.JSON(http.StatusOK, dataview.Build(ds, req))
}

func (s *Server) handleNarrative(c *gin.Context) {
	ds, prof, ok := s.datasetProfile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, insight.Generate(ds, prof))
}

type queryRequest struct {
	Question string `json:"question" binding:"required"`
}

func (s *Server) handleQuery(c *gin.Context) {
	ds, ok := s.dataset(c)
	if !ok {
		return
	}

	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, apperrors.InvalidInput("request body must carry a non-empty \"question\""))
		return
	}

	answer := query.New(ds).Answer(req.Question)
	s.log.Debug("query %q -> intent=%s matched=%t", req.Question, answer.Intent, answer.Matched)
	c.JSON(http.StatusOK, answer)
}

// dataset resolves the :id path parameter, treating "current" as the
// most recent upload.
func (s *Server) dataset(c *gin.Context) (*dataset.Dataset, bool) {
	ds, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return nil, false
	}
	return ds, true
}

func (s *Server) datasetProfile(c *gin.Context) (*dataset.Dataset, *profile.DatasetProfile, bool) {
	ds, ok := s.dataset(c)
	if !ok {
		return nil, nil, false
	}
	prof, err := profile.Profile(ds)
	if err != nil {
		s.renderError(c, err)
		return nil, nil, false
	}
	return ds, prof, true
}

func (s *Server) renderError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeInvalidInput, apperrors.CodeUnsupportedFile, apperrors.CodeEmptyDataset:
		status = http.StatusBadRequest
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}
