package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hestia/internal/handlers"
	"hestia/internal/logger"
	"hestia/internal/middleware"
	"hestia/internal/models"
	"hestia/internal/realtime"
	"hestia/internal/services"
	"hestia/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Household{},
		&models.HouseholdMember{},
		&models.Invitation{},
		&models.Notification{},
		&models.ShoppingItem{},
		&models.BudgetEntry{},
		&models.BudgetPlan{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	hub := realtime.NewHub()

	// Services
	userService := services.NewUserService(db)
	notificationService := services.NewNotificationService(db, hub)
	householdService := services.NewHouseholdService(db)
	memberService := services.NewMemberService(db, notificationService)
	invitationService := services.NewInvitationService(db, notificationService)
	shoppingService := services.NewShoppingService(db)
	budgetService := services.NewBudgetService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	householdHandler := handlers.NewHouseholdHandler(householdService)
	memberHandler := handlers.NewMemberHandler(memberService)
	invitationHandler := handlers.NewInvitationHandler(invitationService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	shoppingHandler := handlers.NewShoppingHandler(shoppingService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	maintenanceHandler := handlers.NewMaintenanceHandler(invitationService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/me", authHandler.GetProfile)
	protected.PATCH("/auth/me", authHandler.UpdateProfile)
	protected.PUT("/auth/password", authHandler.ChangePassword)

	households := protected.Group("/households")
	households.POST("", householdHandler.CreateHousehold)
	households.GET("", householdHandler.GetHouseholds)
	households.GET("/:id", householdHandler.GetHousehold)
	households.PUT("/:id", householdHandler.UpdateHousehold)
	households.DELETE("/:id", householdHandler.DeleteHousehold)
	households.POST("/:id/leave", memberHandler.LeaveHousehold)
	households.GET("/:id/members", memberHandler.GetMembers)
	households.GET("/:id/members/me", memberHandler.GetOwnMembership)
	households.POST("/:id/invitations", invitationHandler.SendInvitation)
	households.GET("/:id/invitations", invitationHandler.GetHouseholdInvitations)
	households.GET("/:id/shopping", shoppingHandler.GetItems)
	households.POST("/:id/shopping", shoppingHandler.AddItem)
	households.GET("/:id/budget/entries", budgetHandler.GetEntries)
	households.POST("/:id/budget/entries", budgetHandler.CreateEntry)
	households.GET("/:id/budget/plans", budgetHandler.GetPlans)
	households.POST("/:id/budget/plans", budgetHandler.CreatePlan)
	households.GET("/:id/budget/summary", budgetHandler.GetSummary)
	households.GET("/:id/budget/progress", budgetHandler.GetProgress)

	members := protected.Group("/members")
	members.PUT("/:memberId/role", memberHandler.ChangeRole)
	members.DELETE("/:memberId", memberHandler.RemoveMember)

	invitations := protected.Group("/invitations")
	invitations.GET("/pending", invitationHandler.GetPendingInvitations)
	invitations.POST("/:invitationId/accept", invitationHandler.AcceptInvitation)
	invitations.POST("/:invitationId/reject", invitationHandler.RejectInvitation)
	invitations.POST("/:invitationId/cancel", invitationHandler.CancelInvitation)
	invitations.DELETE("/:invitationId", invitationHandler.DeleteInvitation)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
	notifications.POST("/read-all", notificationHandler.MarkAllRead)
	notifications.POST("/:notificationId/read", notificationHandler.MarkRead)
	notifications.DELETE("/:notificationId", notificationHandler.DeleteNotification)

	shopping := protected.Group("/shopping")
	shopping.PUT("/:itemId", shoppingHandler.UpdateItem)
	shopping.POST("/:itemId/toggle", shoppingHandler.ToggleItem)
	shopping.DELETE("/:itemId", shoppingHandler.DeleteItem)

	budget := protected.Group("/budget")
	budget.PUT("/entries/:entryId", budgetHandler.UpdateEntry)
	budget.DELETE("/entries/:entryId", budgetHandler.DeleteEntry)
	budget.PUT("/plans/:planId", budgetHandler.UpdatePlan)
	budget.DELETE("/plans/:planId", budgetHandler.DeletePlan)

	internal := v1.Group("/internal")
	internal.Use(middleware.ServiceAuthMiddleware("test-service-key"))
	internal.POST("/maintenance/purge-invitations", maintenanceHandler.PurgeInvitations)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string), result["refresh_token"].(string)
}

// createHousehold creates a household and returns its ID.
func (app *testApp) createHousehold(t *testing.T, token, name string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/households", fmt.Sprintf(`{"name":%q}`, name), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create household failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	household := result["household"].(map[string]interface{})
	return household["id"].(string)
}

// requestWithAPIKey makes a request authenticated with the service API key.
func (app *testApp) requestWithAPIKey(method, path, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-API-Key", apiKey)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}
