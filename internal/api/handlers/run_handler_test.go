package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbeckers/worldvault/internal/models"
)

// fakeBackupService is a canned BackupServiceProvider for handler tests.
type fakeBackupService struct {
	runs      []models.Run
	executed  chan string
	failNext  bool
	latestErr error
}

func (f *fakeBackupService) ExecuteRun(triggeredBy string) (models.Run, error) {
	if f.executed != nil {
		f.executed <- triggeredBy
	}
	if f.failNext {
		return models.Run{}, fmt.Errorf("boom")
	}
	return models.Run{ID: "new-run", TriggeredBy: triggeredBy}, nil
}

func (f *fakeBackupService) GetRecentRuns(limit int) ([]models.Run, error) {
	if limit > len(f.runs) {
		limit = len(f.runs)
	}
	return f.runs[:limit], nil
}

func (f *fakeBackupService) GetRunByID(runID string) (models.Run, error) {
	for _, r := range f.runs {
		if r.ID == runID {
			return r, nil
		}
	}
	return models.Run{}, fmt.Errorf("run with id %s not found", runID)
}

func (f *fakeBackupService) GetLatestRun() (models.Run, error) {
	if f.latestErr != nil {
		return models.Run{}, f.latestErr
	}
	if len(f.runs) == 0 {
		return models.Run{}, fmt.Errorf("no backup runs recorded yet")
	}
	return f.runs[0], nil
}

func newRunRouter(svc *fakeBackupService) *chi.Mux {
	h := NewRunHandler(svc)
	r := chi.NewRouter()
	r.Get("/runs", h.GetRecent)
	r.Post("/runs", h.Trigger)
	r.Get("/runs/latest", h.GetLatest)
	r.Get("/runs/{runId}", h.Get)
	return r
}

func TestRunHandlerGetRecent(t *testing.T) {
	svc := &fakeBackupService{runs: []models.Run{
		{ID: "b", Status: models.RunStatusSuccess, CreatedAt: time.Now()},
		{ID: "a", Status: models.RunStatusFailed, CreatedAt: time.Now().Add(-time.Hour)},
	}}
	router := newRunRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs?limit=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestRunHandlerGet(t *testing.T) {
	svc := &fakeBackupService{runs: []models.Run{{ID: "abc", Status: models.RunStatusSuccess}}}
	router := newRunRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/abc", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/zzz", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunHandlerGetLatestEmptyHistory(t *testing.T) {
	router := newRunRouter(&fakeBackupService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/latest", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunHandlerTrigger(t *testing.T) {
	svc := &fakeBackupService{executed: make(chan string, 1)}
	router := newRunRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/runs", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)

	// The run executes in the background with the API trigger tag.
	select {
	case trigger := <-svc.executed:
		assert.Equal(t, "api", trigger)
	case <-time.After(time.Second):
		t.Fatal("background run was never executed")
	}
}
