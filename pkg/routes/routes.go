package routes

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"prodiny/internal/auth"
	"prodiny/internal/college"
	"prodiny/internal/config"
	"prodiny/internal/project"
	"prodiny/internal/subgroup"
	"prodiny/internal/user"
	"prodiny/pkg/middleware"
)

var APIModule = fx.Module("api",
	fx.Provide(
		NewLogger,
		NewEchoServer,
		config.NewMongoDBConfig,
		config.NewMongoDBClient,
		config.NewResendConfig,
		config.NewEmailService,
		fx.Annotate(auth.NewUserRepository,
			fx.As(new(auth.Store)), fx.As(new(middleware.UserResolver))),
		auth.NewAuthService,
		auth.NewAuthHandler,
		college.NewCollegeRepository,
		college.NewCollegeService,
		college.NewCollegeHandler,
		fx.Annotate(project.NewProjectRepository, fx.As(new(project.Store))),
		project.NewProjectService,
		project.NewProjectHandler,
		fx.Annotate(subgroup.NewSubgroupRepository, fx.As(new(subgroup.Store))),
		subgroup.NewSubgroupService,
		subgroup.NewSubgroupHandler,
		user.NewUserRepository,
		user.NewUserService,
		user.NewUserHandler,
		middleware.NewAuthMiddleware,
		middleware.NewEnforcer,
		middleware.NewRBACMiddleware,
	),
	fx.Invoke(config.EnsureIndexes),
	fx.Invoke(RegisterRoutes),
)

func NewLogger() (*zap.Logger, error) {
	if os.Getenv("GO_ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func NewEchoServer(lc fx.Lifecycle, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	clientURL := os.Getenv("CLIENT_URL")
	if clientURL == "" {
		clientURL = "http://localhost:3000"
	}

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRequestID: true,
		LogLatency:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{clientURL},
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	addr := ":" + port

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting HTTP server", zap.String("addr", addr))
			go func() {
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("failed to start the server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

func RegisterRoutes(
	e *echo.Echo,
	authHandler *auth.AuthHandler,
	collegeHandler *college.CollegeHandler,
	projectHandler *project.ProjectHandler,
	subgroupHandler *subgroup.SubgroupHandler,
	userHandler *user.UserHandler,
	authmw *middleware.AuthMiddleware,
	rbac *middleware.RBACMiddleware,
) {
	api := e.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"message":   "Server is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)

	colleges := api.Group("/colleges")
	colleges.GET("", collegeHandler.List)
	colleges.GET("/:id", collegeHandler.Get)
	colleges.POST("", collegeHandler.Create, authmw.Authenticate, rbac.Enforce)
	colleges.PUT("/:id", collegeHandler.Update, authmw.Authenticate, rbac.Enforce)
	colleges.DELETE("/:id", collegeHandler.Delete, authmw.Authenticate, rbac.Enforce)

	projects := api.Group("/projects")
	projects.GET("", projectHandler.List)
	projects.GET("/:id", projectHandler.Get)
	projects.POST("", projectHandler.Create, authmw.Authenticate)
	projects.PUT("/:id", projectHandler.Update, authmw.Authenticate)
	projects.POST("/:id/join", projectHandler.Join, authmw.Authenticate)
	projects.DELETE("/:id/leave", projectHandler.Leave, authmw.Authenticate)
	projects.DELETE("/:id", projectHandler.Delete, authmw.Authenticate)

	subgroups := api.Group("/subgroups")
	subgroups.GET("/recommended", subgroupHandler.Recommended, authmw.Authenticate)
	subgroups.GET("", subgroupHandler.List)
	subgroups.GET("/:id", subgroupHandler.Get)
	subgroups.POST("", subgroupHandler.Create, authmw.Authenticate)
	subgroups.POST("/:id/join", subgroupHandler.Join, authmw.Authenticate)
	subgroups.DELETE("/:id/leave", subgroupHandler.Leave, authmw.Authenticate)
	subgroups.POST("/:id/posts", subgroupHandler.CreatePost, authmw.Authenticate)

	users := api.Group("/users")
	users.GET("/profile", userHandler.Profile, authmw.Authenticate)
	users.GET("/stats", userHandler.Stats, authmw.Authenticate, rbac.Enforce)
	users.GET("", userHandler.List, authmw.Authenticate, rbac.Enforce)
	users.GET("/:id", userHandler.Get, authmw.Authenticate)
	users.PUT("/:id", userHandler.Update, authmw.Authenticate)
	users.PUT("/:id/role", userHandler.ChangeRole, authmw.Authenticate, rbac.Enforce)
	users.DELETE("/:id", userHandler.Delete, authmw.Authenticate, rbac.Enforce)
}
