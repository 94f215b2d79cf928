package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"farmtrack/internal/delivery/http/helpers"
	"farmtrack/internal/delivery/http/middleware"
	"farmtrack/internal/domain"
)

// RegisterDeviceRequest is the request body for POST /devices.
type RegisterDeviceRequest struct {
	DeviceToken string `json:"device_token"`
	DeviceName  string `json:"device_name"`
	Platform    string `json:"platform"`
	AppVersion  string `json:"app_version"`
}

// Validate implements Validator.
func (d RegisterDeviceRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(d.DeviceToken) == "" {
		errs = append(errs, "device_token is required")
	}
	if d.Platform != "" && d.Platform != "ios" && d.Platform != "android" {
		errs = append(errs, "platform must be \"ios\" or \"android\"")
	}
	return errs
}

// RegisterDeviceSuccessResponse is the success response envelope for POST /devices (200/201).
type RegisterDeviceSuccessResponse struct {
	Data  *domain.DeviceRegistration `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// VerifyDeviceRequest is the request body for POST /devices/verify.
type VerifyDeviceRequest struct {
	DeviceToken string `json:"device_token"`
}

// Validate implements Validator.
func (v VerifyDeviceRequest) Validate() []string {
	if strings.TrimSpace(v.DeviceToken) == "" {
		return []string{"device_token is required"}
	}
	return nil
}

// VerifyDeviceResponse is the response body for POST /devices/verify.
type VerifyDeviceResponse struct {
	Registered bool `json:"registered"`
}

// VerifyDeviceSuccessResponse is the success response envelope for POST /devices/verify (200).
type VerifyDeviceSuccessResponse struct {
	Data  VerifyDeviceResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// DeviceController handles push device registration endpoints.
type DeviceController struct {
	Logger  *slog.Logger
	Service domain.DeviceService
}

// NewDeviceController creates a DeviceController with the given logger and service.
func NewDeviceController(logger *slog.Logger, svc domain.DeviceService) *DeviceController {
	return &DeviceController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register a device for push notifications
// @Description Registers the device token for the authenticated user, or re-binds an already known token to them. Returns 201 when a new device row was created, 200 when an existing one was updated.
// @Tags devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterDeviceRequest true "Device data"
// @Success 200 {object} controllers.RegisterDeviceSuccessResponse "data contains the registration"
// @Success 201 {object} controllers.RegisterDeviceSuccessResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /devices [post]
func (c *DeviceController) Register(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req RegisterDeviceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	device := &domain.Device{
		DeviceToken: strings.TrimSpace(req.DeviceToken),
		DeviceName:  strings.TrimSpace(req.DeviceName),
		Platform:    req.Platform,
		AppVersion:  req.AppVersion,
	}
	reg, err := c.Service.Register(r.Context(), userID, device)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	status := http.StatusOK
	if reg.Registered {
		status = http.StatusCreated
	}
	helpers.WriteJSONSuccess(w, status, reg)
}

// Verify godoc
// @Summary Check whether a device token is registered
// @Description Reports whether the given push token is known to the registry. The mobile app calls this on startup to decide whether to re-register.
// @Tags devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body VerifyDeviceRequest true "Device token"
// @Success 200 {object} controllers.VerifyDeviceSuccessResponse "data.registered reports the token status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /devices/verify [post]
func (c *DeviceController) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyDeviceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	registered, err := c.Service.IsRegistered(r.Context(), strings.TrimSpace(req.DeviceToken))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, VerifyDeviceResponse{Registered: registered})
}
