package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sstent/podsync-go/internal/analysis"
	"github.com/sstent/podsync-go/internal/database"
	"github.com/sstent/podsync-go/internal/models"
	"github.com/sstent/podsync-go/internal/parser"
)

type fakeAnalyzer struct {
	result *models.AnalysisResult
	err    error
	got    analysis.DateRange
}

func (f *fakeAnalyzer) Analyze(_ context.Context, r analysis.DateRange) (*models.AnalysisResult, error) {
	f.got = r
	return f.result, f.err
}

type fakeStore struct {
	posts []database.Post
}

func (f *fakeStore) GetPosts(_ context.Context, limit, offset int) ([]database.Post, error) {
	return f.posts, nil
}

func (f *fakeStore) CreatePost(_ context.Context, post *database.Post) error {
	post.ID = int64(len(f.posts) + 1)
	f.posts = append(f.posts, *post)
	return nil
}

func (f *fakeStore) DeletePost(_ context.Context, id int64) error {
	return database.ErrPostNotFound
}

func (f *fakeStore) GetStats(_ context.Context) (*database.Stats, error) {
	return &database.Stats{Total: len(f.posts)}, nil
}

type fakeImporter struct {
	err error
}

func (f *fakeImporter) ImportData(_ context.Context, filename string, data []byte) (*database.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &database.Post{ID: 9, Title: filename}, nil
}

func sampleResult() *models.AnalysisResult {
	r := analysis.Aggregate([]models.MetricSample{
		{HeartRate: models.Float64(110), Steps: models.Float64(1000)},
		{HeartRate: models.Float64(90), Steps: models.Float64(2000)},
	})
	return &r
}

func newTestRouter(t *testing.T, a Analyzer, s PostStore, i Importer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := NewRouter(NewWebHandler(a, s, i, zap.NewNop()))
	require.NoError(t, err)
	return router
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &fakeAnalyzer{}, &fakeStore{}, &fakeImporter{})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestIndex_NoData(t *testing.T) {
	empty := analysis.Aggregate(nil)
	router := newTestRouter(t, &fakeAnalyzer{result: &empty}, &fakeStore{}, &fakeImporter{})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No smartwatch data available or found.")
	assert.NotContains(t, w.Body.String(), "heartRateChart")
}

func TestIndex_RendersSummary(t *testing.T) {
	a := &fakeAnalyzer{result: sampleResult()}
	router := newTestRouter(t, a, &fakeStore{}, &fakeImporter{})

	form := url.Values{"start_date": {"2024-01-01"}, "end_date": {"2024-01-31"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := serve(router, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Average: 100 bpm")
	assert.Contains(t, body, "Standard Deviation: 10 bpm")
	assert.Contains(t, body, "Average: 1500</p>")
	assert.Contains(t, body, "Average: 0 meters")
	assert.Contains(t, body, analysis.SuggestionLowSteps)
	assert.Contains(t, body, "[1,2]")
	assert.Contains(t, body, "[110,90]")
	require.NotNil(t, a.got.From)
	assert.Equal(t, "2024-01-01", a.got.From.Format("2006-01-02"))
}

func TestIndex_BadDate(t *testing.T) {
	router := newTestRouter(t, &fakeAnalyzer{}, &fakeStore{}, &fakeImporter{})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/?start_date=2024-02-01&end_date=2024-01-01", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "start date is after end date")
}

func TestIndex_AnalyzerError(t *testing.T) {
	router := newTestRouter(t, &fakeAnalyzer{err: errors.New("boom")}, &fakeStore{}, &fakeImporter{})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestAnalysisJSON(t *testing.T) {
	router := newTestRouter(t, &fakeAnalyzer{result: sampleResult()}, &fakeStore{}, &fakeImporter{})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/analysis?start_date=2024-01-01", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Analysis models.AnalysisResult `json:"analysis"`
		Chart    []models.ChartPoint   `json:"chart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, 2, payload.Analysis.TotalEntries)
	assert.Equal(t, 100.0, payload.Analysis.HeartRate.Average)
	assert.Equal(t, []models.ChartPoint{{Index: 1, Value: 110}, {Index: 2, Value: 90}}, payload.Chart)
}

func TestAnalysisJSON_BadDate(t *testing.T) {
	router := newTestRouter(t, &fakeAnalyzer{}, &fakeStore{}, &fakeImporter{})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/analysis?end_date=31-01-2024", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalysisCSV(t *testing.T) {
	router := newTestRouter(t, &fakeAnalyzer{result: sampleResult()}, &fakeStore{}, &fakeImporter{})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/analysis.csv", nil))

	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Equal(t, "Metric,Unit,Average,Max,Min,Standard Deviation,Count", lines[0])
	assert.Equal(t, "Heart Rate,bpm,100,110,90,10,2", lines[1])
	assert.Equal(t, "Total Entries,2", lines[5])
}

func TestAnalysisXLSX(t *testing.T) {
	router := newTestRouter(t, &fakeAnalyzer{result: sampleResult()}, &fakeStore{}, &fakeImporter{})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/analysis.xlsx", nil))
	require.Equal(t, http.StatusOK, w.Code)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Series"}, f.GetSheetList())
	assert.Equal(t, "Summary", f.GetSheetName(f.GetActiveSheetIndex()))

	v, err := f.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Heart Rate", v)

	v, err = f.GetCellValue("Series", "A3")
	require.NoError(t, err)
	assert.Equal(t, "90", v)
}

func TestCreatePost(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(t, &fakeAnalyzer{}, store, &fakeImporter{})

	body := `{"title":"walk","content":"{\"steps\":4000}","published_at":"2024-02-03"}`
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := serve(router, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.posts, 1)
	assert.Equal(t, "2024-02-03", store.posts[0].PublishedAt.Format("2006-01-02"))
}

func TestCreatePost_MissingContent(t *testing.T) {
	router := newTestRouter(t, &fakeAnalyzer{}, &fakeStore{}, &fakeImporter{})

	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	assert.Equal(t, http.StatusBadRequest, serve(router, req).Code)
}

func TestDeletePost_NotFound(t *testing.T) {
	router := newTestRouter(t, &fakeAnalyzer{}, &fakeStore{}, &fakeImporter{})

	assert.Equal(t, http.StatusNotFound, serve(router, httptest.NewRequest(http.MethodDelete, "/api/posts/5", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, httptest.NewRequest(http.MethodDelete, "/api/posts/abc", nil)).Code)
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImport(t *testing.T) {
	router := newTestRouter(t, &fakeAnalyzer{}, &fakeStore{}, &fakeImporter{})

	w := serve(router, uploadRequest(t, "run.tcx", []byte("<TrainingCenterDatabase/>")))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "run.tcx")
}

func TestImport_Unsupported(t *testing.T) {
	router := newTestRouter(t, &fakeAnalyzer{}, &fakeStore{}, &fakeImporter{err: parser.ErrUnsupportedType})

	w := serve(router, uploadRequest(t, "notes.txt", []byte("hello")))

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestImport_MissingFile(t *testing.T) {
	router := newTestRouter(t, &fakeAnalyzer{}, &fakeStore{}, &fakeImporter{})

	w := serve(router, httptest.NewRequest(http.MethodPost, "/api/import", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "100", formatNumber(100))
	assert.Equal(t, "70.67", formatNumber(70.666666))
	assert.Equal(t, "0", formatNumber(0))
}
