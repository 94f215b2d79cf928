package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmtrack/internal/delivery/http/helpers"
	"farmtrack/internal/domain"
)

// fakePoultryService implements domain.PoultryService for handler tests.
type fakePoultryService struct {
	createFlockErr error
	lastFlock      *domain.Flock

	getFlock    *domain.Flock
	getFlockErr error

	updateFlock    *domain.Flock
	updateFlockErr error
	lastUpdate     domain.FlockUpdate

	flocks     []*domain.Flock
	total      int
	listErr    error
	lastFilter domain.FlockFilter

	recordErr error
	lastEgg   *domain.EggLayingRecord

	csv    []byte
	csvErr error
}

func (f *fakePoultryService) CreateFlock(ctx context.Context, flock *domain.Flock) error {
	f.lastFlock = flock
	if f.createFlockErr != nil {
		return f.createFlockErr
	}
	flock.ID = "f1"
	return nil
}

func (f *fakePoultryService) GetFlockByID(ctx context.Context, id string) (*domain.Flock, error) {
	if f.getFlockErr != nil {
		return nil, f.getFlockErr
	}
	return f.getFlock, nil
}

func (f *fakePoultryService) UpdateFlock(ctx context.Context, id string, update domain.FlockUpdate) (*domain.Flock, error) {
	f.lastUpdate = update
	if f.updateFlockErr != nil {
		return nil, f.updateFlockErr
	}
	return f.updateFlock, nil
}

func (f *fakePoultryService) ListFlocks(ctx context.Context, filter domain.FlockFilter, params domain.PaginationParams) ([]*domain.Flock, int, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.flocks, f.total, nil
}

func (f *fakePoultryService) RecordEggLaying(ctx context.Context, rec *domain.EggLayingRecord) error {
	f.lastEgg = rec
	return f.recordErr
}

func (f *fakePoultryService) ListEggLayingRecords(ctx context.Context, filter domain.EggLayingFilter, params domain.PaginationParams) ([]*domain.EggLayingRecord, int, error) {
	return nil, 0, f.listErr
}

func (f *fakePoultryService) RecordWeighing(ctx context.Context, rec *domain.WeighingRecord) error {
	return f.recordErr
}

func (f *fakePoultryService) ListWeighingRecords(ctx context.Context, flockID string, params domain.PaginationParams) ([]*domain.WeighingRecord, int, error) {
	return nil, 0, f.listErr
}

func (f *fakePoultryService) RecordGrowthPerformance(ctx context.Context, perf *domain.GrowthPerformance) error {
	return f.recordErr
}

func (f *fakePoultryService) ListGrowthPerformances(ctx context.Context, flockID string, params domain.PaginationParams) ([]*domain.GrowthPerformance, int, error) {
	return nil, 0, f.listErr
}

func (f *fakePoultryService) ExportFlocksCSV(ctx context.Context) ([]byte, error) {
	if f.csvErr != nil {
		return nil, f.csvErr
	}
	return f.csv, nil
}

func TestPoultryController_CreateFlock(t *testing.T) {
	validBody := `{"identifier":"BAT-2026-01","bird_type":"hen","production_type":"eggs","housing_system":"free_range","placement_date":"2026-03-01T00:00:00Z","initial_headcount":500}`

	tests := []struct {
		name         string
		body         string
		fakeErr      error
		wantStatus   int
		wantBodyCode string
	}{
		{
			name:       "success",
			body:       validBody,
			wantStatus: http.StatusCreated,
		},
		{
			name:         "missing identifier",
			body:         `{"bird_type":"hen","initial_headcount":500}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "zero headcount",
			body:         `{"identifier":"BAT-2026-01","initial_headcount":0}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "bad production type",
			body:         `{"identifier":"BAT-2026-01","production_type":"wool","initial_headcount":10}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "duplicate identifier",
			body:         validBody,
			fakeErr:      domain.ErrDuplicateIdentifier,
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakePoultryService{createFlockErr: tt.fakeErr}
			ctrl := NewPoultryController(testLogger(), fake)

			req := httptest.NewRequest(http.MethodPost, "http://test/poultry/flocks", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.CreateFlock(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusCreated {
				require.NotNil(t, fake.lastFlock)
				assert.Equal(t, "BAT-2026-01", fake.lastFlock.Identifier)
				assert.Equal(t, 500, fake.lastFlock.CurrentHeadcount)
				assert.Equal(t, domain.FlockActive, fake.lastFlock.Status)
				return
			}
			envelope := decodeEnvelope(t, rr.Body)
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}
}

func TestPoultryController_UpdateFlock(t *testing.T) {
	cullDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	fake := &fakePoultryService{
		updateFlock: &domain.Flock{ID: "f1", Identifier: "BAT-2026-01", Status: domain.FlockCulled, CullDate: &cullDate},
	}
	ctrl := NewPoultryController(testLogger(), fake)

	body := `{"cull_date":"2026-08-01T00:00:00Z","current_headcount":420}`
	req := httptest.NewRequest(http.MethodPatch, "http://test/poultry/flocks/f1", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", "f1")
	rr := httptest.NewRecorder()

	ctrl.UpdateFlock(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, fake.lastUpdate.CullDate)
	assert.True(t, fake.lastUpdate.CullDate.Equal(cullDate))
	require.NotNil(t, fake.lastUpdate.CurrentHeadcount)
	assert.Equal(t, 420, *fake.lastUpdate.CurrentHeadcount)
}

func TestPoultryController_ListFlocks(t *testing.T) {
	fake := &fakePoultryService{
		flocks: []*domain.Flock{{ID: "f1", Identifier: "BAT-2026-01"}},
		total:  1,
	}
	ctrl := NewPoultryController(testLogger(), fake)

	req := httptest.NewRequest(http.MethodGet, "http://test/poultry/flocks?production_type=eggs&status=active", nil)
	rr := httptest.NewRecorder()

	ctrl.ListFlocks(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.ProductionEggs, fake.lastFilter.ProductionType)
	assert.Equal(t, domain.FlockActive, fake.lastFilter.Status)
}

func TestPoultryController_RecordEggLaying(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakePoultryService{}
		ctrl := NewPoultryController(testLogger(), fake)

		body := `{"record_date":"2026-08-20T00:00:00Z","egg_count":380,"broken_rate":2.5}`
		req := httptest.NewRequest(http.MethodPost, "http://test/poultry/flocks/f1/laying", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.SetPathValue("id", "f1")
		rr := httptest.NewRecorder()

		ctrl.RecordEggLaying(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		require.NotNil(t, fake.lastEgg)
		assert.Equal(t, "f1", fake.lastEgg.FlockID)
		assert.Equal(t, 380, fake.lastEgg.EggCount)
	})

	t.Run("unknown flock", func(t *testing.T) {
		fake := &fakePoultryService{recordErr: domain.ErrNotFound}
		ctrl := NewPoultryController(testLogger(), fake)

		body := `{"egg_count":10}`
		req := httptest.NewRequest(http.MethodPost, "http://test/poultry/flocks/nope/laying", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.SetPathValue("id", "nope")
		rr := httptest.NewRecorder()

		ctrl.RecordEggLaying(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestPoultryController_ExportFlocks(t *testing.T) {
	csv := "identifier,bird_type\nBAT-2026-01,hen\n"
	fake := &fakePoultryService{csv: []byte(csv)}
	ctrl := NewPoultryController(testLogger(), fake)

	req := httptest.NewRequest(http.MethodGet, "http://test/poultry/flocks/export", nil)
	rr := httptest.NewRecorder()

	ctrl.ExportFlocks(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "flocks.csv")
	assert.True(t, strings.HasPrefix(rr.Body.String(), "identifier,"))
}

func TestPoultryController_GetFlock_NotFound(t *testing.T) {
	fake := &fakePoultryService{getFlockErr: domain.ErrNotFound}
	ctrl := NewPoultryController(testLogger(), fake)

	req := httptest.NewRequest(http.MethodGet, "http://test/poultry/flocks/nope", nil)
	req.SetPathValue("id", "nope")
	rr := httptest.NewRecorder()

	ctrl.GetFlock(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	envelope := decodeEnvelope(t, rr.Body)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, helpers.ErrCodeNotFound, envelope.Error.Code)
}
