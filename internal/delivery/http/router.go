package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"farmtrack/internal/delivery/http/controllers"
	"farmtrack/internal/delivery/http/middleware"
	"farmtrack/internal/delivery/ws"
	"farmtrack/internal/domain"
)

// Controllers bundles the route handlers for NewRouter.
type Controllers struct {
	User         *controllers.UserController
	Device       *controllers.DeviceController
	Notification *controllers.NotificationController
	Poultry      *controllers.PoultryController
	Fishery      *controllers.FisheryController
	Cattle       *controllers.CattleController
	Analysis     *controllers.AnalysisController
}

// NewRouter initializes the HTTP router with all application routes.
// Everything except signup, login, swagger, and the websocket endpoint
// requires a Bearer token.
func NewRouter(c Controllers, hub *ws.Hub, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup/request", c.User.RequestSignUp)
	mux.HandleFunc("POST /auth/signup/confirm", c.User.ConfirmSignUp)
	mux.HandleFunc("POST /auth/login", c.User.Login)
	mux.HandleFunc("POST /auth/password/forgot", c.User.ForgotPassword)
	mux.HandleFunc("POST /auth/password/reset", c.User.ResetPassword)

	// Users
	mux.HandleFunc("GET /users/me", auth(c.User.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(c.User.UpdateMe))
	mux.HandleFunc("PATCH /users/me/language", auth(c.User.ChangeLanguage))
	mux.HandleFunc("PATCH /users/me/notifications", auth(c.User.SetNotifications))
	mux.HandleFunc("GET /users", auth(c.User.List))

	// Devices
	mux.HandleFunc("POST /devices", auth(c.Device.Register))
	mux.HandleFunc("POST /devices/verify", auth(c.Device.Verify))

	// Notifications
	mux.HandleFunc("GET /notifications", auth(c.Notification.ListActive))
	mux.HandleFunc("POST /notifications/{id}/read", auth(c.Notification.MarkRead))

	// Poultry
	mux.HandleFunc("POST /poultry/flocks", auth(c.Poultry.CreateFlock))
	mux.HandleFunc("GET /poultry/flocks", auth(c.Poultry.ListFlocks))
	mux.HandleFunc("GET /poultry/flocks/export", auth(c.Poultry.ExportFlocks))
	mux.HandleFunc("GET /poultry/flocks/{id}", auth(c.Poultry.GetFlock))
	mux.HandleFunc("PATCH /poultry/flocks/{id}", auth(c.Poultry.UpdateFlock))
	mux.HandleFunc("POST /poultry/flocks/{id}/laying", auth(c.Poultry.RecordEggLaying))
	mux.HandleFunc("GET /poultry/flocks/{id}/laying", auth(c.Poultry.ListEggLayingRecords))
	mux.HandleFunc("POST /poultry/flocks/{id}/weighings", auth(c.Poultry.RecordWeighing))
	mux.HandleFunc("GET /poultry/flocks/{id}/weighings", auth(c.Poultry.ListWeighings))
	mux.HandleFunc("POST /poultry/flocks/{id}/growth", auth(c.Poultry.RecordGrowthPerformance))
	mux.HandleFunc("GET /poultry/flocks/{id}/growth", auth(c.Poultry.ListGrowthPerformances))

	// Fishery
	mux.HandleFunc("POST /fishery/ponds", auth(c.Fishery.CreatePond))
	mux.HandleFunc("GET /fishery/ponds", auth(c.Fishery.ListPonds))
	mux.HandleFunc("GET /fishery/ponds/{id}", auth(c.Fishery.GetPond))
	mux.HandleFunc("POST /fishery/ponds/{id}/water", auth(c.Fishery.RecordWaterQuality))
	mux.HandleFunc("GET /fishery/ponds/{id}/water", auth(c.Fishery.ListWaterQualityReadings))
	mux.HandleFunc("POST /fishery/ponds/{id}/stockings", auth(c.Fishery.StockFish))
	mux.HandleFunc("GET /fishery/ponds/{id}/stockings", auth(c.Fishery.ListFishStockings))

	// Cattle
	mux.HandleFunc("POST /cattle/animals", auth(c.Cattle.CreateAnimal))
	mux.HandleFunc("GET /cattle/animals", auth(c.Cattle.ListAnimals))
	mux.HandleFunc("GET /cattle/animals/{id}", auth(c.Cattle.GetAnimal))
	mux.HandleFunc("PATCH /cattle/animals/{id}", auth(c.Cattle.UpdateAnimal))
	mux.HandleFunc("POST /cattle/animals/{id}/milk", auth(c.Cattle.RecordMilkProduction))
	mux.HandleFunc("GET /cattle/animals/{id}/milk", auth(c.Cattle.ListMilkProductionRecords))

	// Analysis
	mux.HandleFunc("GET /analysis/poultry", auth(c.Analysis.AnalyzePoultry))
	mux.HandleFunc("GET /analysis/fishery", auth(c.Analysis.AnalyzeFishery))
	mux.HandleFunc("POST /analysis/run", auth(c.Analysis.RunFullAnalysis))

	// Live notifications; the hub authenticates via a token query parameter.
	mux.Handle("GET /ws", hub)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
