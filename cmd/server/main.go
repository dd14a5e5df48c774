// Package main runs the gym/club management HTTP server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Dangerousyusuf/gymclub-backend/config"
	"github.com/Dangerousyusuf/gymclub-backend/internal/auth"
	"github.com/Dangerousyusuf/gymclub-backend/internal/authz"
	"github.com/Dangerousyusuf/gymclub-backend/internal/clubs"
	"github.com/Dangerousyusuf/gymclub-backend/internal/gyms"
	"github.com/Dangerousyusuf/gymclub-backend/internal/middleware"
	"github.com/Dangerousyusuf/gymclub-backend/internal/ownership"
	"github.com/Dangerousyusuf/gymclub-backend/internal/permissions"
	"github.com/Dangerousyusuf/gymclub-backend/internal/relationships"
	"github.com/Dangerousyusuf/gymclub-backend/internal/roles"
	"github.com/Dangerousyusuf/gymclub-backend/internal/users"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/database"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/queue"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/redis"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/response"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/storage"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/utils"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	}, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	txm := database.NewTxManager(pool)

	rdb, err := redis.NewClient(ctx, redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var permCache authz.Cache
	switch cfg.Authz.CacheBackend {
	case "redis":
		permCache = authz.NewRedisCache(rdb.Client, cfg.Authz.CacheTTL)
	case "memory":
		permCache = authz.NewMemoryCache(cfg.Authz.CacheSize, cfg.Authz.CacheTTL)
	default:
		permCache = authz.NopCache{}
	}
	logger.Info("permission cache", zap.String("backend", cfg.Authz.CacheBackend), zap.Duration("ttl", cfg.Authz.CacheTTL))

	// Club logos are optional; uploads fail with 500 when S3 is not configured.
	var logoStore clubs.LogoStorage
	if cfg.AWS.LogosBucket != "" && cfg.AWS.Region != "" {
		s3Client, err := storage.NewS3(ctx, storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			LogosBucket:     cfg.AWS.LogosBucket,
			Endpoint:        cfg.AWS.Endpoint,
		}, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		} else {
			logoStore = s3Client
		}
	}
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Authorization core
	permRepo := permissions.NewRepository(pool)
	permSvc := permissions.NewService(permRepo, logger)
	authzSvc := authz.NewService(authz.NewRepository(pool), txm, permCache, logger)
	roleSvc := roles.NewService(roles.NewRepository(pool), permRepo, txm, authzSvc, logger)

	// Accounts
	userRepo := users.NewRepository(pool)
	userSvc := users.NewService(userRepo, logger)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	authSvc := auth.NewService(userRepo, authzSvc, jwtService, utils.NewPasswordHasher(cfg.Auth.BcryptCost), logger)

	// Clubs, gyms and the links between them
	clubSvc := clubs.NewService(clubs.NewRepository(pool), txm, logoStore, jobQueue, cfg.Uploads.MaxLogoBytes, logger)
	gymSvc := gyms.NewService(gyms.NewRepository(pool), logger)
	ownerSvc := ownership.NewService(ownership.NewRepository(pool), txm, logger)
	relSvc := relationships.NewService(relationships.NewRepository(pool), txm, logger)

	if err := bootstrap(ctx, permSvc, roleSvc, userRepo, authzSvc, cfg.Bootstrap.AdminEmail, logger); err != nil {
		logger.Fatal("bootstrap", zap.Error(err))
	}

	authHandler := auth.NewHandler(authSvc, middleware.UserID)
	userHandler := users.NewHandler(userSvc)
	permHandler := permissions.NewHandler(permSvc)
	roleHandler := roles.NewHandler(roleSvc)
	authzHandler := authz.NewHandler(authzSvc)
	clubHandler := clubs.NewHandler(clubSvc, logger)
	gymHandler := gyms.NewHandler(gymSvc)
	ownerHandler := ownership.NewHandler(ownerSvc)
	relHandler := relationships.NewHandler(relSvc)

	router := gin.New()
	router.MaxMultipartMemory = cfg.Uploads.MaxLogoBytes
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	need := func(keys ...string) gin.HandlerFunc { return middleware.RequirePermission(authzSvc, keys...) }

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.GET("/me", authHandler.Me)
		api.GET("/me/permissions", authzHandler.Mine)

		// Users
		api.GET("/users", need(permissions.UsersRead), userHandler.List)
		api.GET("/users/:id", need(permissions.UsersRead), userHandler.Get)
		api.PUT("/users/:id", need(permissions.UsersUpdate), userHandler.UpdateProfile)
		api.PATCH("/users/:id/status", need(permissions.UsersUpdate), userHandler.SetStatus)
		api.GET("/users/:id/clubs", need(permissions.OwnershipRead), ownerHandler.ByUser)

		// User authorization
		api.GET("/users/:id/permissions/effective", need(permissions.UsersRead), authzHandler.Effective)
		api.GET("/users/:id/roles", need(permissions.UsersRead), authzHandler.ListRoles)
		api.POST("/users/:id/roles", need(permissions.UsersManageRoles), authzHandler.AssignRole)
		api.PUT("/users/:id/roles", need(permissions.UsersManageRoles), authzHandler.ReplaceRoles)
		api.DELETE("/users/:id/roles/:roleId", need(permissions.UsersManageRoles), authzHandler.RemoveRole)
		api.GET("/users/:id/permissions", need(permissions.UsersRead), authzHandler.ListPermissions)
		api.POST("/users/:id/permissions", need(permissions.UsersManagePermissions), authzHandler.GrantPermission)
		api.PUT("/users/:id/permissions", need(permissions.UsersManagePermissions), authzHandler.ReplacePermissions)
		api.DELETE("/users/:id/permissions/:permissionId", need(permissions.UsersManagePermissions), authzHandler.RevokePermission)

		// Roles
		api.GET("/roles", need(permissions.RolesRead), roleHandler.List)
		api.GET("/roles/:id", need(permissions.RolesRead), roleHandler.Get)
		api.POST("/roles", need(permissions.RolesCreate), roleHandler.Create)
		api.PATCH("/roles/:id", need(permissions.RolesUpdate), roleHandler.Update)
		api.PUT("/roles/:id/permissions", need(permissions.RolesUpdate), roleHandler.ReplacePermissions)
		api.DELETE("/roles/:id", need(permissions.RolesDelete), roleHandler.Delete)

		// Permission catalog
		api.GET("/permissions", need(permissions.PermissionsRead), permHandler.List)
		api.GET("/permissions/grouped", need(permissions.PermissionsRead), permHandler.Grouped)
		api.GET("/permissions/:id", need(permissions.PermissionsRead), permHandler.Get)
		api.POST("/permissions", need(permissions.PermissionsCreate), permHandler.Create)
		api.PATCH("/permissions/:id", need(permissions.PermissionsUpdate), permHandler.Update)

		// Clubs
		api.GET("/clubs", need(permissions.ClubsRead), clubHandler.List)
		api.POST("/clubs", need(permissions.ClubsCreate), clubHandler.Create)
		api.GET("/clubs/:id", need(permissions.ClubsRead), clubHandler.Get)
		api.PUT("/clubs/:id", need(permissions.ClubsUpdate), clubHandler.Update)
		api.PATCH("/clubs/:id/status", need(permissions.ClubsUpdate), clubHandler.SetStatus)
		api.DELETE("/clubs/:id", need(permissions.ClubsDelete), clubHandler.Delete)
		api.POST("/clubs/:id/logo", need(permissions.ClubsUpdate), clubHandler.UploadLogo)

		// Club ownership
		api.GET("/clubs/:id/owners", need(permissions.OwnershipRead), ownerHandler.List)
		api.GET("/clubs/:id/owners/history", need(permissions.OwnershipRead), ownerHandler.History)
		api.GET("/clubs/:id/owners/summary", need(permissions.OwnershipRead), ownerHandler.Summary)
		api.POST("/clubs/:id/owners", need(permissions.OwnershipManage), ownerHandler.Add)
		api.PATCH("/clubs/:id/owners/:ownerId", need(permissions.OwnershipManage), ownerHandler.Update)
		api.DELETE("/clubs/:id/owners/:ownerId", need(permissions.OwnershipManage), ownerHandler.Remove)

		// Club-gym relationships
		api.GET("/clubs/:id/gyms", need(permissions.RelationshipsRead), relHandler.ListGyms)
		api.POST("/clubs/:id/gyms", need(permissions.RelationshipsManage), relHandler.Connect)
		api.PATCH("/clubs/:id/gyms/:gymId", need(permissions.RelationshipsManage), relHandler.Update)
		api.DELETE("/clubs/:id/gyms/:gymId", need(permissions.RelationshipsManage), relHandler.Disconnect)
		api.GET("/gyms/:id/clubs", need(permissions.RelationshipsRead), relHandler.ListClubs)

		// Gyms
		api.GET("/gyms", need(permissions.GymsRead), gymHandler.List)
		api.POST("/gyms", need(permissions.GymsCreate), gymHandler.Create)
		api.GET("/gyms/:id", need(permissions.GymsRead), gymHandler.Get)
		api.PUT("/gyms/:id", need(permissions.GymsUpdate), gymHandler.Update)
		api.PATCH("/gyms/:id/status", need(permissions.GymsUpdate), gymHandler.SetStatus)
		api.DELETE("/gyms/:id", need(permissions.GymsDelete), gymHandler.Delete)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
