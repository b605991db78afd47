package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/classroom-api/internal/config"
	"github.com/yourusername/classroom-api/internal/handler"
	"github.com/yourusername/classroom-api/internal/middleware"
	pgRepo "github.com/yourusername/classroom-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/classroom-api/internal/repository/redis"
	"github.com/yourusername/classroom-api/internal/service"
	"github.com/yourusername/classroom-api/pkg/auth"
	"github.com/yourusername/classroom-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции (схема и сид банка вопросов)
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	sessionRepo := pgRepo.NewSessionRepo(db)
	responseRepo := pgRepo.NewResponseRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Google OAuth для входа студентов (опционален)
	var googleOAuth *service.GoogleOAuthService
	if cfg.Google.ClientID != "" {
		googleOAuth, err = service.NewGoogleOAuthService(cfg.Google)
		if err != nil {
			log.Printf("Failed to initialize GoogleOAuthService: %v", err)
			os.Exit(1)
		}
	} else {
		log.Println("Google OAuth не сконфигурирован, вход через Google отключен")
	}

	// Почта с итогами сессии (опциональна)
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.ResendAPIKey != "" {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.FromAddress)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
	} else {
		log.Println("Resend API key не задан, письма с итогами отключены")
	}

	// QR-коды для подключения студентов
	qrService, err := service.NewQRService(cfg.App.BaseURL, cfg.App.QRCodeDir)
	if err != nil {
		log.Printf("Failed to initialize QRService: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервисы
	authService := service.NewAuthService(userRepo, jwtService, googleOAuth)
	resultService := service.NewResultService(sessionRepo, questionRepo, responseRepo)
	sessionService := service.NewSessionService(sessionRepo, questionRepo, userRepo, cacheRepo, qrService, emailService, resultService)
	submissionService := service.NewSubmissionService(sessionRepo, questionRepo, responseRepo)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	sessionHandler := handler.NewSessionHandler(sessionService, resultService)
	studentHandler := handler.NewStudentHandler(sessionService, submissionService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	isProduction := gin.Mode() == gin.ReleaseMode

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.App.BaseURL, "http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Class-Session"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// QR-коды сессий раздаются как статика
	router.StaticFS("/static/qr", http.Dir(cfg.App.QRCodeDir))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.AuthRateLimitConfig()))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/google/login", authHandler.GoogleLogin)
			authGroup.GET("/google/callback", authHandler.GoogleCallback)
		}

		// Пользователи
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", authHandler.Me)
		}

		// Банк вопросов (только преподаватели: ответы видны в выдаче)
		questions := api.Group("/questions")
		questions.Use(authMiddleware.RequireAuth(), authMiddleware.PresenterOnly())
		{
			questions.GET("", sessionHandler.Questions)
			questions.GET("/:ref_id", sessionHandler.QuestionByRef)
		}

		// Сессии занятий
		sessions := api.Group("/sessions")
		sessions.Use(authMiddleware.RequireAuth())
		{
			// Студентские маршруты
			sessions.POST("/join", studentHandler.Join)

			current := sessions.Group("/current")
			{
				current.GET("/question", rateLimiter.Limit(middleware.PollRateLimitConfig()), studentHandler.CurrentQuestion)
				current.POST("/answers", rateLimiter.Limit(middleware.SubmitRateLimitConfig()), studentHandler.Submit)
			}

			// Маршруты преподавателя
			presenter := sessions.Group("")
			presenter.Use(authMiddleware.PresenterOnly())
			{
				presenter.POST("", sessionHandler.Create)
				presenter.GET("", sessionHandler.List)

				sessionWithID := presenter.Group("/:id")
				sessionWithID.Use(middleware.ExtractUintParam("id", "sessionID"))
				{
					sessionWithID.GET("", sessionHandler.Get)
					sessionWithID.POST("/end", sessionHandler.End)
					sessionWithID.GET("/results", sessionHandler.Results)
					sessionWithID.GET("/results/export", sessionHandler.ExportResults)

					questionOps := sessionWithID.Group("/questions/:question_id")
					questionOps.Use(middleware.ExtractUintParam("question_id", "questionID"))
					{
						questionOps.POST("/activate", sessionHandler.ActivateQuestion)
						questionOps.POST("/close", sessionHandler.CloseQuestion)
					}
				}
			}
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
