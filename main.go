package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"realestate-listing/controllers"
	"realestate-listing/infra"
	"realestate-listing/middlewares"
	"realestate-listing/models"
	"realestate-listing/repositories"
	"realestate-listing/services"
	"realestate-listing/sheets"
	"realestate-listing/tasks"
)

func setupRouter(db *gorm.DB, tokenDB *gorm.DB, queue tasks.Enqueuer) *gin.Engine {
	listingRepository := repositories.NewListingRepository(db)
	listingService := services.NewListingService(listingRepository, queue)
	listingController := controllers.NewListingController(listingService)

	authRepository := repositories.NewAuthRepository(db)
	tokenRepository := repositories.NewTokenRepository(tokenDB)
	authService := services.NewAuthService(authRepository, tokenRepository, services.LoginCountHook(authRepository))
	authController := controllers.NewAuthController(authService)

	userService := services.NewUserService(authRepository)
	userController := controllers.NewUserController(userService, authService)

	r := gin.Default()
	r.Use(cors.Default())

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

	return r
}

// setupMirror はスプレッドシートミラーのExecutorをワーカープールへ登録する。
// 認証情報が無い環境（ローカル開発など）ではミラーを無効化して起動を続ける
func setupMirror(pool *tasks.Pool, db *gorm.DB) {
	sheetClient, err := sheets.NewGoogleSheetClient(
		context.Background(),
		os.Getenv("SHEETS_CREDENTIALS_FILE"),
		os.Getenv("SHEETS_SPREADSHEET_ID"),
		os.Getenv("SHEETS_SHEET_NAME"),
	)
	if err != nil {
		log.Printf("Sheet mirroring disabled: %v", err)
		return
	}

	executor := tasks.NewListingMirror(
		repositories.NewListingRepository(db),
		repositories.NewAuthRepository(db),
		sheetClient,
	)
	pool.Register(tasks.TypeMirrorListing, executor)
}

func main() {
	infra.Initialize()
	db := infra.SetupDB()
	tokenDB := infra.SetupTokenDB()

	if os.Getenv("AUTO_MIGRATE") == "true" {
		if err := db.AutoMigrate(&models.User{}, &models.Listing{}); err != nil {
			panic("Failed to migrate database")
		}
		if err := tokenDB.AutoMigrate(&models.BlacklistedToken{}); err != nil {
			log.Printf("Failed to migrate token blacklist database: %v", err)
		}
	}

	pool := tasks.NewPool(4, 64)
	setupMirror(pool, db)
	pool.Start()

	r := setupRouter(db, tokenDB, pool)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	// リクエスト受付を止めてから、積まれたミラータスクを処理し切る
	pool.Stop()
	log.Println("Server exited")
}
