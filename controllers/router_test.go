package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"realestate-listing/dto"
	"realestate-listing/middlewares"
	"realestate-listing/models"
	"realestate-listing/repositories"
	"realestate-listing/services"
	"realestate-listing/tasks"
)

type fakeQueue struct {
	mu       sync.Mutex
	enqueued []tasks.Task
	delays   []time.Duration
}

func (q *fakeQueue) Enqueue(task tasks.Task, delay time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enqueued = append(q.enqueued, task)
	q.delays = append(q.delays, delay)
	return nil
}

func (q *fakeQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.enqueued)
}

// setupTestRouter はmainと同じ配線のルーターをインメモリDBで組み立てる
func setupTestRouter(t *testing.T) (*gin.Engine, *fakeQueue, services.IAuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("SECRET_KEY", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Listing{}, &models.BlacklistedToken{}))

	queue := &fakeQueue{}

	listingRepository := repositories.NewListingRepository(db)
	listingService := services.NewListingService(listingRepository, queue)
	listingController := NewListingController(listingService)

	authRepository := repositories.NewAuthRepository(db)
	tokenRepository := repositories.NewTokenRepository(db)
	authService := services.NewAuthService(authRepository, tokenRepository, services.LoginCountHook(authRepository))
	authController := NewAuthController(authService)

	userService := services.NewUserService(authRepository)
	userController := NewUserController(userService, authService)

	r := gin.New()

	authRouter := r.Group("/auth")
	authRouter.POST("/login/", authController.Login)
	authRouter.POST("/token/refresh/", authController.RefreshToken)
	authRouter.POST("/token/verify/", authController.VerifyToken)
	authRouter.POST("/logout/", authController.Logout)

	userRouter := r.Group("/user")
	userRouter.POST("/register/", middlewares.RegistrationGuard(authService), userController.Register)
	userRouterWithAuth := r.Group("/user", middlewares.AuthMiddleware(authService))
	userRouterWithAuth.GET("/fetch/", userController.FindAll)
	userRouterWithAuth.GET("/fetch/:id/", userController.FindById)
	userRouterWithStaff := r.Group("/user", middlewares.AuthMiddleware(authService), middlewares.StaffOnly())
	userRouterWithStaff.POST("/update/:id/", userController.Update)

	listingRouter := r.Group("/realestates", middlewares.AuthMiddleware(authService))
	listingRouter.GET("/", listingController.FindAll)
	listingRouter.POST("/", listingController.Create)
	listingRouter.GET("/:id/", listingController.FindById)
	listingRouter.PATCH("/:id/", listingController.Update)
	listingRouter.DELETE("/:id/", listingController.Delete)

	return r, queue, authService
}

func doRequest(t *testing.T, router *gin.Engine, method string, path string, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// createUserWithToken はテストユーザーを作ってアクセストークンを返す
func createUserWithToken(t *testing.T, authService services.IAuthService, email string) (uint, string) {
	t.Helper()
	user, err := authService.Register(dto.RegisterUserInput{
		Email:     email,
		Password:  "password123",
		FirstName: "Taro",
		LastName:  "Yamada",
	}, false)
	require.NoError(t, err)

	pair, _, err := authService.Login(email, "password123")
	require.NoError(t, err)
	return user.ID, pair.Access
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
