package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"farmtrack/internal/delivery/http/helpers"
	"farmtrack/internal/domain"
)

// CreateFlockRequest is the request body for POST /poultry/flocks.
type CreateFlockRequest struct {
	Identifier       string    `json:"identifier"`
	BirdType         string    `json:"bird_type"`
	ProductionType   string    `json:"production_type"`
	HousingSystem    string    `json:"housing_system"`
	Strain           string    `json:"strain"`
	PlacementDate    time.Time `json:"placement_date"`
	InitialHeadcount int       `json:"initial_headcount"`
	Notes            string    `json:"notes"`
}

// Validate implements Validator.
func (f CreateFlockRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(f.Identifier) == "" {
		errs = append(errs, "identifier is required")
	}
	if f.InitialHeadcount <= 0 {
		errs = append(errs, "initial_headcount must be positive")
	}
	switch f.ProductionType {
	case "", domain.ProductionEggs, domain.ProductionMeat, domain.ProductionDual:
	default:
		errs = append(errs, "production_type must be \"eggs\", \"meat\" or \"dual\"")
	}
	return errs
}

// UpdateFlockRequest is the request body for PATCH /poultry/flocks/{id}.
// All fields are optional; setting cull_date closes the flock.
type UpdateFlockRequest struct {
	HousingSystem    *string    `json:"housing_system"`
	Strain           *string    `json:"strain"`
	CullDate         *time.Time `json:"cull_date"`
	CurrentHeadcount *int       `json:"current_headcount"`
	Status           *string    `json:"status"`
	Notes            *string    `json:"notes"`
}

// Validate implements Validator.
func (f UpdateFlockRequest) Validate() []string {
	var errs []string
	if f.CurrentHeadcount != nil && *f.CurrentHeadcount < 0 {
		errs = append(errs, "current_headcount cannot be negative")
	}
	if f.Status != nil && *f.Status != domain.FlockActive && *f.Status != domain.FlockCulled {
		errs = append(errs, "status must be \"active\" or \"culled\"")
	}
	return errs
}

// EggLayingRequest is the request body for POST /poultry/flocks/{id}/laying.
type EggLayingRequest struct {
	RecordDate    time.Time `json:"record_date"`
	EggCount      int       `json:"egg_count"`
	MeanEggWeight float64   `json:"mean_egg_weight"`
	LayingRate    float64   `json:"laying_rate"`
	BrokenRate    float64   `json:"broken_rate"`
	DirtyRate     float64   `json:"dirty_rate"`
	Notes         string    `json:"notes"`
}

// Validate implements Validator.
func (e EggLayingRequest) Validate() []string {
	var errs []string
	if e.EggCount < 0 {
		errs = append(errs, "egg_count cannot be negative")
	}
	if e.LayingRate < 0 || e.LayingRate > 100 {
		errs = append(errs, "laying_rate must be between 0 and 100")
	}
	if e.BrokenRate < 0 || e.BrokenRate > 100 {
		errs = append(errs, "broken_rate must be between 0 and 100")
	}
	return errs
}

// WeighingRequest is the request body for POST /poultry/flocks/{id}/weighings.
type WeighingRequest struct {
	WeighedAt   time.Time `json:"weighed_at"`
	SampleSize  int       `json:"sample_size"`
	MeanWeight  float64   `json:"mean_weight"`
	TotalWeight float64   `json:"total_weight"`
	Notes       string    `json:"notes"`
}

// Validate implements Validator.
func (wr WeighingRequest) Validate() []string {
	if wr.SampleSize <= 0 {
		return []string{"sample_size must be positive"}
	}
	return nil
}

// GrowthPerformanceRequest is the request body for POST /poultry/flocks/{id}/growth.
type GrowthPerformanceRequest struct {
	RecordDate     time.Time `json:"record_date"`
	MeanWeight     float64   `json:"mean_weight"`
	DailyGain      float64   `json:"daily_gain"`
	FeedIntake     float64   `json:"feed_intake"`
	FeedConversion float64   `json:"feed_conversion"`
	MortalityRate  float64   `json:"mortality_rate"`
	Uniformity     float64   `json:"uniformity"`
	Notes          string    `json:"notes"`
}

// Validate implements Validator.
func (g GrowthPerformanceRequest) Validate() []string {
	if g.MortalityRate < 0 || g.MortalityRate > 100 {
		return []string{"mortality_rate must be between 0 and 100"}
	}
	return nil
}

// FlockSuccessResponse is the success response envelope for single-flock endpoints.
type FlockSuccessResponse struct {
	Data  *domain.Flock     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// PoultryController handles poultry management endpoints.
type PoultryController struct {
	Logger  *slog.Logger
	Service domain.PoultryService
}

// NewPoultryController creates a PoultryController with the given logger and service.
func NewPoultryController(logger *slog.Logger, svc domain.PoultryService) *PoultryController {
	return &PoultryController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *PoultryController) internalError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}

// CreateFlock godoc
// @Summary Create a flock
// @Description Creates a poultry flock. The identifier must be unique across flocks.
// @Tags poultry
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateFlockRequest true "Flock data"
// @Success 201 {object} controllers.FlockSuccessResponse "data contains the created flock"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /poultry/flocks [post]
func (c *PoultryController) CreateFlock(w http.ResponseWriter, r *http.Request) {
	var req CreateFlockRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	flock := domain.NewFlock(
		strings.TrimSpace(req.Identifier),
		req.BirdType,
		req.ProductionType,
		req.HousingSystem,
		req.Strain,
		req.PlacementDate,
		req.InitialHeadcount,
		time.Now(),
	)
	flock.Notes = req.Notes
	if err := c.Service.CreateFlock(r.Context(), flock); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentifier) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "flock identifier already in use")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, flock)
}

// GetFlock godoc
// @Summary Get a flock
// @Tags poultry
// @Produce json
// @Security BearerAuth
// @Param id path string true "Flock ID"
// @Success 200 {object} controllers.FlockSuccessResponse "data contains the flock"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /poultry/flocks/{id} [get]
func (c *PoultryController) GetFlock(w http.ResponseWriter, r *http.Request) {
	flock, err := c.Service.GetFlockByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "flock not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, flock)
}

// UpdateFlock godoc
// @Summary Update a flock
// @Description Updates the given fields of a flock. Setting cull_date also sets the status to "culled".
// @Tags poultry
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Flock ID"
// @Param body body UpdateFlockRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.FlockSuccessResponse "data contains the updated flock"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /poultry/flocks/{id} [patch]
func (c *PoultryController) UpdateFlock(w http.ResponseWriter, r *http.Request) {
	var req UpdateFlockRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	update := domain.FlockUpdate{
		HousingSystem:    req.HousingSystem,
		Strain:           req.Strain,
		CullDate:         req.CullDate,
		CurrentHeadcount: req.CurrentHeadcount,
		Status:           req.Status,
		Notes:            req.Notes,
	}
	flock, err := c.Service.UpdateFlock(r.Context(), r.PathValue("id"), update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "flock not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, flock)
}

// ListFlocks godoc
// @Summary List flocks
// @Tags poultry
// @Produce json
// @Security BearerAuth
// @Param production_type query string false "Filter by production type"
// @Param status query string false "Filter by status"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Param max_page_buttons query int false "Page buttons the client renders (default 5)"
// @Success 200 {object} helpers.PaginatedResponse "items contains flocks"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /poultry/flocks [get]
func (c *PoultryController) ListFlocks(w http.ResponseWriter, r *http.Request) {
	filter := domain.FlockFilter{
		ProductionType: r.URL.Query().Get("production_type"),
		Status:         r.URL.Query().Get("status"),
	}
	params := helpers.ParsePagination(r)
	flocks, total, err := c.Service.ListFlocks(r.Context(), filter, params)
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WritePaginatedSuccess(w, r, flocks, params, total)
}

// ExportFlocks godoc
// @Summary Export flocks as CSV
// @Description Streams all flocks as a CSV file, one row per flock.
// @Tags poultry
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV body"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /poultry/flocks/export [get]
func (c *PoultryController) ExportFlocks(w http.ResponseWriter, r *http.Request) {
	data, err := c.Service.ExportFlocksCSV(r.Context())
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="flocks.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// RecordEggLaying godoc
// @Summary Record a daily laying control
// @Description Records egg production for a flock. When laying_rate is omitted it is derived from egg_count and the flock's current headcount.
// @Tags poultry
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Flock ID"
// @Param body body EggLayingRequest true "Laying data"
// @Success 201 {object} helpers.APIResponse "data contains the created record"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /poultry/flocks/{id}/laying [post]
func (c *PoultryController) RecordEggLaying(w http.ResponseWriter, r *http.Request) {
	var req EggLayingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	rec := &domain.EggLayingRecord{
		FlockID:       r.PathValue("id"),
		RecordDate:    req.RecordDate,
		EggCount:      req.EggCount,
		MeanEggWeight: req.MeanEggWeight,
		LayingRate:    req.LayingRate,
		BrokenRate:    req.BrokenRate,
		DirtyRate:     req.DirtyRate,
		Notes:         req.Notes,
	}
	if err := c.Service.RecordEggLaying(r.Context(), rec); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "flock not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, rec)
}

// ListEggLayingRecords godoc
// @Summary List laying records for a flock
// @Tags poultry
// @Produce json
// @Security BearerAuth
// @Param id path string true "Flock ID"
// @Param start_date query string false "Only records on or after this date (RFC 3339)"
// @Param end_date query string false "Only records on or before this date (RFC 3339)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.PaginatedResponse "items contains laying records, newest first"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /poultry/flocks/{id}/laying [get]
func (c *PoultryController) ListEggLayingRecords(w http.ResponseWriter, r *http.Request) {
	filter := domain.EggLayingFilter{FlockID: r.PathValue("id")}
	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid start_date")
			return
		}
		filter.StartDate = &t
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid end_date")
			return
		}
		filter.EndDate = &t
	}
	params := helpers.ParsePagination(r)
	records, total, err := c.Service.ListEggLayingRecords(r.Context(), filter, params)
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WritePaginatedSuccess(w, r, records, params, total)
}

// RecordWeighing godoc
// @Summary Record a sample weighing
// @Description Records a weighing for a flock. When mean_weight is omitted it is derived from total_weight and sample_size.
// @Tags poultry
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Flock ID"
// @Param body body WeighingRequest true "Weighing data"
// @Success 201 {object} helpers.APIResponse "data contains the created record"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /poultry/flocks/{id}/weighings [post]
func (c *PoultryController) RecordWeighing(w http.ResponseWriter, r *http.Request) {
	var req WeighingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	rec := &domain.WeighingRecord{
		FlockID:     r.PathValue("id"),
		WeighedAt:   req.WeighedAt,
		SampleSize:  req.SampleSize,
		MeanWeight:  req.MeanWeight,
		TotalWeight: req.TotalWeight,
		Notes:       req.Notes,
	}
	if err := c.Service.RecordWeighing(r.Context(), rec); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "flock not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, rec)
}

// ListWeighings godoc
// @Summary List weighings for a flock
// @Tags poultry
// @Produce json
// @Security BearerAuth
// @Param id path string true "Flock ID"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.PaginatedResponse "items contains weighings, newest first"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /poultry/flocks/{id}/weighings [get]
func (c *PoultryController) ListWeighings(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	records, total, err := c.Service.ListWeighingRecords(r.Context(), r.PathValue("id"), params)
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WritePaginatedSuccess(w, r, records, params, total)
}

// RecordGrowthPerformance godoc
// @Summary Record growth performance
// @Description Records growth and feed indicators for a flock on a control date.
// @Tags poultry
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Flock ID"
// @Param body body GrowthPerformanceRequest true "Performance data"
// @Success 201 {object} helpers.APIResponse "data contains the created record"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /poultry/flocks/{id}/growth [post]
func (c *PoultryController) RecordGrowthPerformance(w http.ResponseWriter, r *http.Request) {
	var req GrowthPerformanceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	perf := &domain.GrowthPerformance{
		FlockID:        r.PathValue("id"),
		RecordDate:     req.RecordDate,
		MeanWeight:     req.MeanWeight,
		DailyGain:      req.DailyGain,
		FeedIntake:     req.FeedIntake,
		FeedConversion: req.FeedConversion,
		MortalityRate:  req.MortalityRate,
		Uniformity:     req.Uniformity,
		Notes:          req.Notes,
	}
	if err := c.Service.RecordGrowthPerformance(r.Context(), perf); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "flock not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, perf)
}

// ListGrowthPerformances godoc
// @Summary List growth performances for a flock
// @Tags poultry
// @Produce json
// @Security BearerAuth
// @Param id path string true "Flock ID"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.PaginatedResponse "items contains growth performances, newest first"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /poultry/flocks/{id}/growth [get]
func (c *PoultryController) ListGrowthPerformances(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	records, total, err := c.Service.ListGrowthPerformances(r.Context(), r.PathValue("id"), params)
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WritePaginatedSuccess(w, r, records, params, total)
}
