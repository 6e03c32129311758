package handlers

import (
	"github.com/skippergoroye/Accman-Server/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes wires every handler onto the app.
func SetupRoutes(app *fiber.App, authH *AuthHandler, adminH *AdminHandler, dashH *DashboardHandler, userH *UserHandler) {
	app.Get("/health", HealthCheck)

	// Public auth routes
	auth := app.Group("/auth")
	auth.Post("/register/user", authH.Register)
	auth.Post("/verify-email", authH.VerifyEmail)
	auth.Post("/login/user", authH.Login)
	auth.Post("/forgot-password", authH.ForgotPassword)
	auth.Post("/reset-new-password/:resetCode", authH.ResetPassword)

	// Admin routes; login and register are public, the rest require
	// an admin token.
	admin := app.Group("/admin")
	admin.Post("/login", adminH.Login)
	admin.Post("/register", adminH.Register)

	adminOnly := admin.Group("/", middleware.RequireAuth, middleware.RequireAdmin)
	adminOnly.Get("/getusers", adminH.GetUsers)
	adminOnly.Get("/dashboard", adminH.Dashboard)
	adminOnly.Get("/fund/requests", adminH.PendingFundingRequests)
	adminOnly.Patch("/approve/:requestId", adminH.ApproveFundingRequest)
	adminOnly.Patch("/reject/:requestId", adminH.RejectFundingRequest)
	adminOnly.Get("/transactions", adminH.Transactions)

	// User dashboard routes
	dashboard := app.Group("/dashboard", middleware.RequireAuth)
	dashboard.Post("/add-funds", dashH.AddFunds)
	dashboard.Get("/find/user/:id", dashH.Transactions)
	dashboard.Get("/balance", dashH.Balance)

	// Profile routes
	users := app.Group("/user", middleware.RequireAuth)
	users.Get("/find/:id", userH.Find)
	users.Patch("/:id", userH.Update)
	users.Delete("/:id", userH.Delete)
}
