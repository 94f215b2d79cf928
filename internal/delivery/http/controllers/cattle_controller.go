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

// CreateAnimalRequest is the request body for POST /cattle/animals.
type CreateAnimalRequest struct {
	TagNumber string    `json:"tag_number"`
	Breed     string    `json:"breed"`
	Sex       string    `json:"sex"`
	BirthDate time.Time `json:"birth_date"`
	Notes     string    `json:"notes"`
}

// Validate implements Validator.
func (a CreateAnimalRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.TagNumber) == "" {
		errs = append(errs, "tag_number is required")
	}
	if a.Sex != domain.SexFemale && a.Sex != domain.SexMale {
		errs = append(errs, "sex must be \"female\" or \"male\"")
	}
	return errs
}

// UpdateAnimalRequest is the request body for PATCH /cattle/animals/{id}.
// All fields are optional.
type UpdateAnimalRequest struct {
	Breed  *string `json:"breed"`
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// Validate implements Validator.
func (a UpdateAnimalRequest) Validate() []string {
	if a.Status != nil {
		switch *a.Status {
		case domain.AnimalActive, domain.AnimalSold, domain.AnimalDead:
		default:
			return []string{"status must be \"active\", \"sold\" or \"dead\""}
		}
	}
	return nil
}

// MilkProductionRequest is the request body for POST /cattle/animals/{id}/milk.
type MilkProductionRequest struct {
	RecordDate  time.Time `json:"record_date"`
	Liters      float64   `json:"liters"`
	FatRate     float64   `json:"fat_rate"`
	ProteinRate float64   `json:"protein_rate"`
	Notes       string    `json:"notes"`
}

// Validate implements Validator.
func (m MilkProductionRequest) Validate() []string {
	if m.Liters < 0 {
		return []string{"liters cannot be negative"}
	}
	return nil
}

// AnimalSuccessResponse is the success response envelope for single-animal endpoints.
type AnimalSuccessResponse struct {
	Data  *domain.Animal    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CattleController handles cattle management endpoints.
type CattleController struct {
	Logger  *slog.Logger
	Service domain.CattleService
}

// NewCattleController creates a CattleController with the given logger and service.
func NewCattleController(logger *slog.Logger, svc domain.CattleService) *CattleController {
	return &CattleController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *CattleController) internalError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}

// CreateAnimal godoc
// @Summary Register an animal
// @Description Registers a head of cattle. The tag number must be unique across the herd.
// @Tags cattle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateAnimalRequest true "Animal data"
// @Success 201 {object} controllers.AnimalSuccessResponse "data contains the created animal"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /cattle/animals [post]
func (c *CattleController) CreateAnimal(w http.ResponseWriter, r *http.Request) {
	var req CreateAnimalRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	animal := domain.NewAnimal(
		strings.TrimSpace(req.TagNumber),
		req.Breed,
		req.Sex,
		req.BirthDate,
		time.Now(),
	)
	animal.Notes = req.Notes
	if err := c.Service.CreateAnimal(r.Context(), animal); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentifier) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "tag number already in use")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, animal)
}

// GetAnimal godoc
// @Summary Get an animal
// @Tags cattle
// @Produce json
// @Security BearerAuth
// @Param id path string true "Animal ID"
// @Success 200 {object} controllers.AnimalSuccessResponse "data contains the animal"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /cattle/animals/{id} [get]
func (c *CattleController) GetAnimal(w http.ResponseWriter, r *http.Request) {
	animal, err := c.Service.GetAnimal(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "animal not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, animal)
}

// UpdateAnimal godoc
// @Summary Update an animal
// @Tags cattle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Animal ID"
// @Param body body UpdateAnimalRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.AnimalSuccessResponse "data contains the updated animal"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /cattle/animals/{id} [patch]
func (c *CattleController) UpdateAnimal(w http.ResponseWriter, r *http.Request) {
	var req UpdateAnimalRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	update := domain.AnimalUpdate{
		Breed:  req.Breed,
		Status: req.Status,
		Notes:  req.Notes,
	}
	animal, err := c.Service.UpdateAnimal(r.Context(), r.PathValue("id"), update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "animal not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, animal)
}

// ListAnimals godoc
// @Summary List animals
// @Tags cattle
// @Produce json
// @Security BearerAuth
// @Param breed query string false "Filter by breed"
// @Param status query string false "Filter by status"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Param max_page_buttons query int false "Page buttons the client renders (default 5)"
// @Success 200 {object} helpers.PaginatedResponse "items contains animals"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /cattle/animals [get]
func (c *CattleController) ListAnimals(w http.ResponseWriter, r *http.Request) {
	filter := domain.AnimalFilter{
		Breed:  r.URL.Query().Get("breed"),
		Status: r.URL.Query().Get("status"),
	}
	params := helpers.ParsePagination(r)
	animals, total, err := c.Service.ListAnimals(r.Context(), filter, params)
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WritePaginatedSuccess(w, r, animals, params, total)
}

// RecordMilkProduction godoc
// @Summary Record milk production
// @Description Records a daily milk yield for a female animal.
// @Tags cattle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Animal ID"
// @Param body body MilkProductionRequest true "Milk production data"
// @Success 201 {object} helpers.APIResponse "data contains the created record"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /cattle/animals/{id}/milk [post]
func (c *CattleController) RecordMilkProduction(w http.ResponseWriter, r *http.Request) {
	var req MilkProductionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	rec := &domain.MilkProductionRecord{
		AnimalID:    r.PathValue("id"),
		RecordDate:  req.RecordDate,
		Liters:      req.Liters,
		FatRate:     req.FatRate,
		ProteinRate: req.ProteinRate,
		Notes:       req.Notes,
	}
	if err := c.Service.RecordMilkProduction(r.Context(), rec); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "animal not found")
		case strings.Contains(err.Error(), "female"):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.internalError(w, r, err)
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, rec)
}

// ListMilkProductionRecords godoc
// @Summary List milk production records for an animal
// @Tags cattle
// @Produce json
// @Security BearerAuth
// @Param id path string true "Animal ID"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.PaginatedResponse "items contains milk records, newest first"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /cattle/animals/{id}/milk [get]
func (c *CattleController) ListMilkProductionRecords(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	records, total, err := c.Service.ListMilkProductionRecords(r.Context(), r.PathValue("id"), params)
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WritePaginatedSuccess(w, r, records, params, total)
}
