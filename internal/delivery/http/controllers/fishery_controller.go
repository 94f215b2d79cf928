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

// CreatePondRequest is the request body for POST /fishery/ponds.
type CreatePondRequest struct {
	Name             string    `json:"name"`
	Environment      string    `json:"environment"`
	RearingType      string    `json:"rearing_type"`
	Volume           float64   `json:"volume"`
	Area             float64   `json:"area"`
	MeanDepth        float64   `json:"mean_depth"`
	MaxCapacity      int       `json:"max_capacity"`
	CommissionedAt   time.Time `json:"commissioned_at"`
	FiltrationSystem string    `json:"filtration_system"`
	AerationSystem   string    `json:"aeration_system"`
	Notes            string    `json:"notes"`
}

// Validate implements Validator.
func (p CreatePondRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	switch p.Environment {
	case "", domain.EnvironmentFreshwater, domain.EnvironmentBrackish, domain.EnvironmentSaltwater:
	default:
		errs = append(errs, "environment must be \"freshwater\", \"brackish\" or \"saltwater\"")
	}
	if p.Volume < 0 || p.Area < 0 || p.MeanDepth < 0 {
		errs = append(errs, "dimensions cannot be negative")
	}
	return errs
}

// WaterQualityRequest is the request body for POST /fishery/ponds/{id}/water.
type WaterQualityRequest struct {
	MeasuredAt      time.Time `json:"measured_at"`
	Temperature     float64   `json:"temperature"`
	PH              float64   `json:"ph"`
	DissolvedOxygen float64   `json:"dissolved_oxygen"`
	Ammonia         float64   `json:"ammonia"`
	Nitrite         float64   `json:"nitrite"`
	Nitrate         float64   `json:"nitrate"`
	Salinity        float64   `json:"salinity"`
	Turbidity       float64   `json:"turbidity"`
	Notes           string    `json:"notes"`
}

// Validate implements Validator.
func (q WaterQualityRequest) Validate() []string {
	var errs []string
	if q.PH < 0 || q.PH > 14 {
		errs = append(errs, "ph must be between 0 and 14")
	}
	if q.DissolvedOxygen < 0 {
		errs = append(errs, "dissolved_oxygen cannot be negative")
	}
	return errs
}

// StockFishRequest is the request body for POST /fishery/ponds/{id}/stockings.
type StockFishRequest struct {
	Species    string    `json:"species"`
	Origin     string    `json:"origin"`
	StockedAt  time.Time `json:"stocked_at"`
	Count      int       `json:"count"`
	MeanWeight float64   `json:"mean_weight"`
	MeanLength float64   `json:"mean_length"`
	FeedType   string    `json:"feed_type"`
}

// Validate implements Validator.
func (s StockFishRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Species) == "" {
		errs = append(errs, "species is required")
	}
	if s.Count <= 0 {
		errs = append(errs, "count must be positive")
	}
	return errs
}

// PondSuccessResponse is the success response envelope for single-pond endpoints.
type PondSuccessResponse struct {
	Data  *domain.PondWithOccupancy `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// FisheryController handles fish farming endpoints.
type FisheryController struct {
	Logger  *slog.Logger
	Service domain.FisheryService
}

// NewFisheryController creates a FisheryController with the given logger and service.
func NewFisheryController(logger *slog.Logger, svc domain.FisheryService) *FisheryController {
	return &FisheryController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *FisheryController) internalError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}

// CreatePond godoc
// @Summary Create a pond
// @Description Creates a fish pond. When volume is omitted it is derived from area and mean depth.
// @Tags fishery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePondRequest true "Pond data"
// @Success 201 {object} helpers.APIResponse "data contains the created pond"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /fishery/ponds [post]
func (c *FisheryController) CreatePond(w http.ResponseWriter, r *http.Request) {
	var req CreatePondRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	pond := domain.NewPond(
		strings.TrimSpace(req.Name),
		req.Environment,
		req.RearingType,
		req.Volume,
		req.Area,
		req.MeanDepth,
		req.MaxCapacity,
		req.CommissionedAt,
		time.Now(),
	)
	pond.FiltrationSystem = req.FiltrationSystem
	pond.AerationSystem = req.AerationSystem
	pond.Notes = req.Notes
	if err := c.Service.CreatePond(r.Context(), pond); err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, pond)
}

// GetPond godoc
// @Summary Get a pond with its occupancy
// @Description Returns the pond plus the stocked fish count and the derived occupancy rate.
// @Tags fishery
// @Produce json
// @Security BearerAuth
// @Param id path string true "Pond ID"
// @Success 200 {object} controllers.PondSuccessResponse "data contains the pond with occupancy"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /fishery/ponds/{id} [get]
func (c *FisheryController) GetPond(w http.ResponseWriter, r *http.Request) {
	pond, err := c.Service.GetPond(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "pond not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, pond)
}

// ListPonds godoc
// @Summary List ponds
// @Tags fishery
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Param max_page_buttons query int false "Page buttons the client renders (default 5)"
// @Success 200 {object} helpers.PaginatedResponse "items contains ponds"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /fishery/ponds [get]
func (c *FisheryController) ListPonds(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	ponds, total, err := c.Service.ListPonds(r.Context(), params)
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WritePaginatedSuccess(w, r, ponds, params, total)
}

// RecordWaterQuality godoc
// @Summary Record a water quality reading
// @Description Records a water control for a pond. The grade is assigned from the measured values.
// @Tags fishery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Pond ID"
// @Param body body WaterQualityRequest true "Reading data"
// @Success 201 {object} helpers.APIResponse "data contains the created reading with its grade"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /fishery/ponds/{id}/water [post]
func (c *FisheryController) RecordWaterQuality(w http.ResponseWriter, r *http.Request) {
	var req WaterQualityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reading := &domain.WaterQualityReading{
		PondID:          r.PathValue("id"),
		MeasuredAt:      req.MeasuredAt,
		Temperature:     req.Temperature,
		PH:              req.PH,
		DissolvedOxygen: req.DissolvedOxygen,
		Ammonia:         req.Ammonia,
		Nitrite:         req.Nitrite,
		Nitrate:         req.Nitrate,
		Salinity:        req.Salinity,
		Turbidity:       req.Turbidity,
		Notes:           req.Notes,
	}
	if err := c.Service.RecordWaterQuality(r.Context(), reading); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "pond not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reading)
}

// ListWaterQualityReadings godoc
// @Summary List water quality readings for a pond
// @Tags fishery
// @Produce json
// @Security BearerAuth
// @Param id path string true "Pond ID"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.PaginatedResponse "items contains readings, newest first"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /fishery/ponds/{id}/water [get]
func (c *FisheryController) ListWaterQualityReadings(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	readings, total, err := c.Service.ListWaterQualityReadings(r.Context(), r.PathValue("id"), params)
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WritePaginatedSuccess(w, r, readings, params, total)
}

// StockFish godoc
// @Summary Stock fish into a pond
// @Description Records a stocking. Rejected when it would push the pond past its maximum capacity.
// @Tags fishery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Pond ID"
// @Param body body StockFishRequest true "Stocking data"
// @Success 201 {object} helpers.APIResponse "data contains the created stocking"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /fishery/ponds/{id}/stockings [post]
func (c *FisheryController) StockFish(w http.ResponseWriter, r *http.Request) {
	var req StockFishRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	stocking := &domain.FishStocking{
		PondID:     r.PathValue("id"),
		Species:    strings.TrimSpace(req.Species),
		Origin:     req.Origin,
		StockedAt:  req.StockedAt,
		Count:      req.Count,
		MeanWeight: req.MeanWeight,
		MeanLength: req.MeanLength,
		FeedType:   req.FeedType,
	}
	if err := c.Service.StockFish(r.Context(), stocking); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "pond not found")
		case strings.Contains(err.Error(), "capacity"):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.internalError(w, r, err)
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, stocking)
}

// ListFishStockings godoc
// @Summary List stockings for a pond
// @Tags fishery
// @Produce json
// @Security BearerAuth
// @Param id path string true "Pond ID"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.PaginatedResponse "items contains stockings, newest first"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /fishery/ponds/{id}/stockings [get]
func (c *FisheryController) ListFishStockings(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	stockings, total, err := c.Service.ListFishStockings(r.Context(), r.PathValue("id"), params)
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WritePaginatedSuccess(w, r, stockings, params, total)
}
