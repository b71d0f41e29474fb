package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/trucomm/trucomm/internal/auth"
	authdomain "github.com/trucomm/trucomm/internal/auth/domain"
	"github.com/trucomm/trucomm/internal/config"
	"github.com/trucomm/trucomm/internal/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	auth.Module,
	metrics.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(RunHTTP),
)

func NewEngine(log *zap.Logger, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(httpMetrics.Middleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine  *gin.Engine
	cfg     config.Config
	db      *gorm.DB
	log     *zap.Logger
	authsvc authdomain.Service
}

type ServerParams struct {
	fx.In

	Gin     *gin.Engine
	Cfg     config.Config
	DB      *gorm.DB
	Log     *zap.Logger
	Authsvc authdomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:  p.Gin,
		cfg:     p.Cfg,
		db:      p.DB,
		log:     p.Log.Named("http"),
		authsvc: p.Authsvc,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// RegisterRoutes wires the two parallel auth surfaces plus the super-admin
// administration endpoints.
func (s *Server) RegisterRoutes() {
	userAuth := s.engine.Group("/auth")
	userAuth.POST("/login", s.Login(authdomain.KindUser))
	userAuth.POST("/refresh", s.Refresh(authdomain.KindUser))
	userAuth.POST("/logout", s.Logout(authdomain.KindUser))
	userAuth.GET("/profile",
		s.AuthRequired(), s.FreshSession(), s.ObserveIP(),
		s.Profile(authdomain.KindUser))

	adminAuth := s.engine.Group("/super-admin")
	adminAuth.POST("/login", s.Login(authdomain.KindSuperAdmin))
	adminAuth.POST("/refresh", s.Refresh(authdomain.KindSuperAdmin))
	adminAuth.POST("/logout", s.Logout(authdomain.KindSuperAdmin))
	adminAuth.GET("/profile",
		s.AuthRequired(), s.FreshSession(), s.ObserveIP(),
		s.Profile(authdomain.KindSuperAdmin))

	admin := s.engine.Group("/auth",
		s.AuthRequired(), s.RequireAdmin(), s.FreshSession())
	admin.GET("/sessions", s.ListSessions)
	admin.DELETE("/sessions/:id", s.RevokeSession)
	admin.GET("/users", s.ListUsers)
	admin.POST("/users", s.CreateUser)
	admin.GET("/users/:id", s.GetUser)
	admin.PATCH("/users/:id/status", s.UpdateUserStatus)
	admin.PATCH("/users/:id/role", s.UpdateUserRole)
	admin.GET("/stats", s.Stats)
}
