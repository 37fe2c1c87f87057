package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sstent/podsync-go/internal/analysis"
	"github.com/sstent/podsync-go/internal/database"
	"github.com/sstent/podsync-go/internal/models"
	"github.com/sstent/podsync-go/internal/parser"
)

// maxUploadSize caps activity file uploads.
const maxUploadSize = 32 << 20

type Analyzer interface {
	Analyze(ctx context.Context, r analysis.DateRange) (*models.AnalysisResult, error)
}

type PostStore interface {
	GetPosts(ctx context.Context, limit, offset int) ([]database.Post, error)
	CreatePost(ctx context.Context, post *database.Post) error
	DeletePost(ctx context.Context, id int64) error
	GetStats(ctx context.Context) (*database.Stats, error)
}

type Importer interface {
	ImportData(ctx context.Context, filename string, data []byte) (*database.Post, error)
}

type WebHandler struct {
	analyzer Analyzer
	posts    PostStore
	importer Importer
	logger   *zap.Logger
}

func NewWebHandler(analyzer Analyzer, posts PostStore, importer Importer, logger *zap.Logger) *WebHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebHandler{
		analyzer: analyzer,
		posts:    posts,
		importer: importer,
		logger:   logger,
	}
}

// NewRouter builds the gin engine with templates and all routes.
func NewRouter(h *WebHandler) (*gin.Engine, error) {
	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.logger))
	router.SetHTMLTemplate(tmpl)
	h.RegisterRoutes(router)

	return router, nil
}

func (h *WebHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/", h.Index)
	router.POST("/", h.Index)

	api := router.Group("/api")
	api.GET("/analysis", h.AnalysisJSON)
	api.GET("/analysis.csv", h.AnalysisCSV)
	api.GET("/analysis.xlsx", h.AnalysisXLSX)
	api.GET("/stats", h.Stats)
	api.GET("/posts", h.PostList)
	api.POST("/posts", h.CreatePost)
	api.DELETE("/posts/:id", h.DeletePost)
	api.POST("/import", h.Import)
}

func (h *WebHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

type metricBlock struct {
	Label string
	Unit  string
	Stats models.SummaryStats
}

type pageData struct {
	Title       string
	StartDate   string
	EndDate     string
	Range       string
	Error       string
	Result      *models.AnalysisResult
	Blocks      []metricBlock
	ChartLabels []int
	ChartValues []float64
}

// Index renders the analysis page. The form posts back to itself.
func (h *WebHandler) Index(c *gin.Context) {
	start, end := dateParams(c)
	data := pageData{Title: "Pod App", StartDate: start, EndDate: end}

	r, err := analysis.ParseDateRange(start, end)
	if err != nil {
		data.Error = err.Error()
		c.HTML(http.StatusBadRequest, "analysis", data)
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), r)
	if err != nil {
		h.logger.Error("analysis failed", zap.Error(err))
		data.Error = "Analysis failed, please try again."
		c.HTML(http.StatusInternalServerError, "analysis", data)
		return
	}

	data.Range = r.String()
	data.Result = result
	for _, m := range models.Metrics {
		data.Blocks = append(data.Blocks, metricBlock{Label: m.Label(), Unit: m.Unit(), Stats: result.Stats(m)})
	}
	for _, p := range result.HeartRateChart() {
		data.ChartLabels = append(data.ChartLabels, p.Index)
		data.ChartValues = append(data.ChartValues, p.Value)
	}

	c.HTML(http.StatusOK, "analysis", data)
}

func (h *WebHandler) AnalysisJSON(c *gin.Context) {
	result, ok := h.analyze(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"analysis": result,
		"chart":    result.HeartRateChart(),
	})
}

func (h *WebHandler) AnalysisCSV(c *gin.Context) {
	result, ok := h.analyze(c)
	if !ok {
		return
	}

	body, err := GenerateSummaryCSV(result)
	if err != nil {
		h.logger.Error("csv export failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="smartwatch-analysis.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

func (h *WebHandler) AnalysisXLSX(c *gin.Context) {
	result, ok := h.analyze(c)
	if !ok {
		return
	}

	body, err := GenerateSummaryXLSX(result)
	if err != nil {
		h.logger.Error("xlsx export failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="smartwatch-analysis.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", body)
}

// analyze writes the error response itself when it returns false.
func (h *WebHandler) analyze(c *gin.Context) (*models.AnalysisResult, bool) {
	start, end := dateParams(c)
	r, err := analysis.ParseDateRange(start, end)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), r)
	if err != nil {
		h.logger.Error("analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return nil, false
	}
	return result, true
}

func (h *WebHandler) Stats(c *gin.Context) {
	stats, err := h.posts.GetStats(c.Request.Context())
	if err != nil {
		h.logger.Error("stats failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *WebHandler) PostList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := h.posts.GetPosts(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list posts failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, posts)
}

type createPostRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content" binding:"required"`
	PublishedAt string `json:"published_at"`
}

func (h *WebHandler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := &database.Post{Title: req.Title, Content: req.Content}
	if req.PublishedAt != "" {
		t, err := parsePublishedAt(req.PublishedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		post.PublishedAt = t
	}

	if err := h.posts.CreatePost(c.Request.Context(), post); err != nil {
		h.logger.Error("create post failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *WebHandler) DeletePost(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	if err := h.posts.DeletePost(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrPostNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		h.logger.Error("delete post failed", zap.Int64("post_id", id), zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusNoContent)
}

// Import accepts a multipart "file" holding a FIT, TCX or GPX export.
func (h *WebHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.importer.ImportData(c.Request.Context(), fh.Filename, data)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, parser.ErrUnsupportedType) {
			status = http.StatusUnsupportedMediaType
		}
		h.logger.Warn("import rejected", zap.String("file", fh.Filename), zap.Error(err))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// dateParams reads start_date/end_date from the form body, then the query.
func dateParams(c *gin.Context) (string, string) {
	start := c.PostForm("start_date")
	if start == "" {
		start = c.Query("start_date")
	}
	end := c.PostForm("end_date")
	if end == "" {
		end = c.Query("end_date")
	}
	return strings.TrimSpace(start), strings.TrimSpace(end)
}

func parsePublishedAt(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
