package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops-app/fieldops/internal/basestation"
	basestationdomain "github.com/fieldops-app/fieldops/internal/basestation/domain"
	"github.com/fieldops-app/fieldops/internal/config"
	"github.com/fieldops-app/fieldops/internal/identity"
	identitydomain "github.com/fieldops-app/fieldops/internal/identity/domain"
	"github.com/fieldops-app/fieldops/internal/membership"
	membershipdomain "github.com/fieldops-app/fieldops/internal/membership/domain"
	"github.com/fieldops-app/fieldops/internal/migration"
	"github.com/fieldops-app/fieldops/internal/notification"
	notificationdomain "github.com/fieldops-app/fieldops/internal/notification/domain"
	"github.com/fieldops-app/fieldops/internal/notification/hub"
	"github.com/fieldops-app/fieldops/internal/observability"
	obslogger "github.com/fieldops-app/fieldops/internal/observability/logger"
	obsmetrics "github.com/fieldops-app/fieldops/internal/observability/metrics"
	"github.com/fieldops-app/fieldops/internal/organization"
	organizationdomain "github.com/fieldops-app/fieldops/internal/organization/domain"
	"github.com/fieldops-app/fieldops/internal/project"
	projectdomain "github.com/fieldops-app/fieldops/internal/project/domain"
	"github.com/fieldops-app/fieldops/internal/providers/storage"
	"github.com/fieldops-app/fieldops/internal/ratelimit"
	"github.com/fieldops-app/fieldops/internal/report"
	reportdomain "github.com/fieldops-app/fieldops/internal/report/domain"
	"github.com/fieldops-app/fieldops/internal/subscription"
	subscriptiondomain "github.com/fieldops-app/fieldops/internal/subscription/domain"
	"github.com/fieldops-app/fieldops/internal/task"
	taskdomain "github.com/fieldops-app/fieldops/internal/task/domain"
	"github.com/fieldops-app/fieldops/pkg/db"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	observability.Module,
	db.Module,
	migration.Module,
	storage.Module,
	ratelimit.Module,
	identity.Module,
	organization.Module,
	membership.Module,
	subscription.Module,
	project.Module,
	task.Module,
	report.Module,
	basestation.Module,
	notification.Module,
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, logger *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(logger))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal("http server failed", zap.Error(err))
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
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	logger          *zap.Logger
	identitySvc     identitydomain.Service
	organizationSvc organizationdomain.Service
	membershipSvc   membershipdomain.Service
	subscriptionSvc subscriptiondomain.Service
	projectSvc      projectdomain.Service
	taskSvc         taskdomain.Service
	reportSvc       reportdomain.Service
	basestationSvc  basestationdomain.Service
	notificationSvc notificationdomain.Service
	notificationHub *hub.Hub
	upgrader        websocket.Upgrader
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	Logger          *zap.Logger
	IdentitySvc     identitydomain.Service
	OrganizationSvc organizationdomain.Service
	MembershipSvc   membershipdomain.Service
	SubscriptionSvc subscriptiondomain.Service
	ProjectSvc      projectdomain.Service
	TaskSvc         taskdomain.Service
	ReportSvc       reportdomain.Service
	BasestationSvc  basestationdomain.Service
	NotificationSvc notificationdomain.Service
	NotificationHub *hub.Hub
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		logger:          p.Logger,
		identitySvc:     p.IdentitySvc,
		organizationSvc: p.OrganizationSvc,
		membershipSvc:   p.MembershipSvc,
		subscriptionSvc: p.SubscriptionSvc,
		projectSvc:      p.ProjectSvc,
		taskSvc:         p.TaskSvc,
		reportSvc:       p.ReportSvc,
		basestationSvc:  p.BasestationSvc,
		notificationSvc: p.NotificationSvc,
		notificationHub: p.NotificationHub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	s.registerAPIRoutes()
	s.registerSocketRoutes()

	return s
}

func (s *Server) registerAPIRoutes() {
	r := s.engine

	// Declines carry the invite token; the caller may not be signed in.
	r.POST("/api/org/:org/members/decline", s.OrgContext(), s.declineInvite)

	api := r.Group("/api", s.AuthRequired())
	api.GET("/me", s.getMe)
	api.GET("/ws-ticket", s.issueSocketTicket)

	api.POST("/org", s.createOrganization)
	api.GET("/org", s.listOrganizations)

	org := api.Group("/org/:org", s.OrgContext())
	org.GET("", s.RequireMember(), s.getOrganization)

	org.POST("/members/invite", s.inviteMember)
	org.POST("/members/accept", s.acceptInvite)
	org.POST("/members/activate", s.activateMember)
	org.GET("/members", s.RequireMember(), s.listMembers)
	org.POST("/members", s.RequireMember(), s.RequireAdmin(), s.addMember)

	org.GET("/subscription", s.RequireMember(), s.getSubscription)
	org.PUT("/subscription", s.RequireMember(), s.RequireAdmin(), s.updateSubscription)

	member := org.Group("", s.RequireMember())
	member.GET("/projects", s.listProjects)
	member.POST("/projects", s.createProject)
	member.GET("/projects/:id", s.getProject)
	member.PATCH("/projects/:id", s.updateProject)

	member.GET("/tasks", s.listTasks)
	member.POST("/tasks", s.createTask)
	member.GET("/tasks/:id", s.getTask)
	member.PATCH("/tasks/:id", s.updateTask)

	member.GET("/reports", s.listReports)
	member.POST("/reports", s.createReport)
	member.GET("/reports/:id/photo", s.getReportPhoto)

	member.GET("/basestations", s.listBaseStations)
	member.POST("/basestations/import", s.importBaseStations)

	member.GET("/notifications", s.listNotifications)
	member.POST("/notifications/:id/read", s.markNotificationRead)
}
