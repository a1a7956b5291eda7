package http

import (
	"net/http"

	"salesdashboard/internal/delivery/http/controllers"

	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter initializes the HTTP router with all application routes.
// requireAuth wraps every route that needs a logged-in session.
func NewRouter(
	authController *controllers.AuthController,
	dashboardController *controllers.DashboardController,
	widgetController *controllers.WidgetController,
	requireAuth func(http.HandlerFunc) http.HandlerFunc,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("POST /auth/logout", requireAuth(authController.Logout))
	mux.HandleFunc("GET /session", requireAuth(authController.GetSession))

	// Dashboard
	mux.HandleFunc("GET /dashboard", requireAuth(dashboardController.GetDashboard))
	mux.HandleFunc("PUT /dashboard/date-range", requireAuth(dashboardController.SetDateRange))
	mux.HandleFunc("PUT /dashboard/store", requireAuth(dashboardController.SetStore))

	// Widgets
	mux.HandleFunc("GET /widgets/{widget}", requireAuth(widgetController.GetWidget))
	mux.HandleFunc("PUT /widgets/{widget}/search", requireAuth(widgetController.SetSearch))
	mux.HandleFunc("PUT /widgets/{widget}/status", requireAuth(widgetController.SetStatus))
	mux.HandleFunc("PUT /widgets/{widget}/page", requireAuth(widgetController.SetPage))
	mux.HandleFunc("GET /widgets/{widget}/export", requireAuth(widgetController.Export))
	mux.HandleFunc("POST /widgets/{widget}/export/email", requireAuth(widgetController.EmailExport))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
