package controllers

import (
	"log/slog"
	"net/http"

	"farmtrack/internal/delivery/http/helpers"
	"farmtrack/internal/domain"
)

// AlertsSuccessResponse is the success response envelope for analysis endpoints.
type AlertsSuccessResponse struct {
	Data  []domain.Alert    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AnalysisController exposes the rule-based farm analyzers.
type AnalysisController struct {
	Logger  *slog.Logger
	Service domain.AnalysisService
}

// NewAnalysisController creates an AnalysisController with the given logger and service.
func NewAnalysisController(logger *slog.Logger, svc domain.AnalysisService) *AnalysisController {
	return &AnalysisController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *AnalysisController) internalError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}

// AnalyzePoultry godoc
// @Summary Analyze poultry data
// @Description Runs the poultry analyzers over recent records and returns the alerts without delivering notifications.
// @Tags analysis
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.AlertsSuccessResponse "data contains the alerts"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /analysis/poultry [get]
func (c *AnalysisController) AnalyzePoultry(w http.ResponseWriter, r *http.Request) {
	alerts, err := c.Service.AnalyzePoultry(r.Context())
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, alerts)
}

// AnalyzeFishery godoc
// @Summary Analyze fishery data
// @Description Runs the water quality analyzers over the latest readings and returns the alerts without delivering notifications.
// @Tags analysis
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.AlertsSuccessResponse "data contains the alerts"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /analysis/fishery [get]
func (c *AnalysisController) AnalyzeFishery(w http.ResponseWriter, r *http.Request) {
	alerts, err := c.Service.AnalyzeFishery(r.Context())
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, alerts)
}

// RunFullAnalysis godoc
// @Summary Run the full analysis and deliver alerts
// @Description Runs every analyzer and notifies all active users with notifications enabled, in their own language. Normally triggered by the scheduler; this endpoint exists for manual runs.
// @Tags analysis
// @Produce json
// @Security BearerAuth
// @Success 202 {object} helpers.APIResponse "data contains a confirmation"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /analysis/run [post]
func (c *AnalysisController) RunFullAnalysis(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.RunFullAnalysis(r.Context()); err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusAccepted, map[string]string{"status": "completed"})
}
