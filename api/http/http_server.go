package http

import (
	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/broadcast"
	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/config"
	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/initial"
	jwtMiddleware "github.com/Sunly24/Phone-Shop-POS-sub004/internal/middleware/jwt"
	catalogService "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/application/service"
	catalogPersistence "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/infrastructure/persistence"
	catalogHandler "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/interface/http"
	orderService "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/order/application/service"
	orderPersistence "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/order/infrastructure/persistence"
	orderHandler "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/order/interface/http"
	supportService "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/application/service"
	supportPersistence "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/infrastructure/persistence"
	supportHandler "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/interface/http"
	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/interface/scheduler"
	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/application/service"
	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/infrastructure/persistence"
	userHandler "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/interface/http"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/mq"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/mq/kafka"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/ssl"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/ws"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var GE *gin.Engine

// Scheduler is started and stopped by main alongside the HTTP listener.
var Scheduler *scheduler.ConsolidationScheduler

func init() {
	conf := config.GetConfig()

	GE = gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	GE.Use(cors.New(corsConfig))
	GE.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))

	wsHub := ws.NewHub()

	var publisher mq.Publisher
	if conf.KafkaConfig.Enabled {
		var err error
		publisher, err = kafka.NewSaramaPublisher(kafka.PublisherConfig{
			Brokers:  conf.KafkaConfig.Brokers,
			ClientID: conf.KafkaConfig.ClientID,
		})
		if err != nil {
			zlog.Error("kafka publisher disabled: " + err.Error())
			publisher = nil
		}
	}
	gateway := broadcast.NewGateway(wsHub, publisher)

	userRepo := persistence.NewUserRepository(initial.GormDB)
	msgRepo := supportPersistence.NewChatMessageRepository(initial.GormDB)
	productRepo := catalogPersistence.NewProductRepository(initial.GormDB)
	orderRepo := orderPersistence.NewOrderRepository(initial.GormDB)

	userSvc := service.NewUserService(userRepo)
	assignSvc := supportService.NewAssignmentService(msgRepo, userRepo, gateway, conf.SupportConfig.AgentRole)
	consolidateSvc := supportService.NewConsolidationService(msgRepo, gateway)
	chatSvc := supportService.NewSupportChatService(msgRepo, assignSvc, consolidateSvc, gateway)
	productSvc := catalogService.NewProductService(productRepo, gateway)
	orderSvc := orderService.NewOrderService(orderRepo, productRepo, gateway)

	Scheduler = scheduler.NewConsolidationScheduler(consolidateSvc, conf.SupportConfig.ConsolidationCron)

	userH := userHandler.NewUserHandler(userSvc, conf.SupportConfig.AgentRole)
	supportH := supportHandler.NewSupportHandler(chatSvc)
	assignH := supportHandler.NewAssignmentHandler(assignSvc, consolidateSvc)
	wsH := supportHandler.NewWsHandler(wsHub, conf.SupportConfig.AgentRole)
	productH := catalogHandler.NewProductHandler(productSvc)
	orderH := orderHandler.NewOrderHandler(orderSvc)

	// Public surface: the storefront widget has no account.
	GE.POST("/login", userH.Login)
	GE.POST("/support/sendMessage", supportH.SendMessage)
	GE.POST("/support/getSessionMessages", supportH.GetSessionMessages)
	GE.GET("/wss", wsH.Connect)
	GE.POST("/product/list", productH.List)

	authed := GE.Group("/")
	authed.Use(jwtMiddleware.Auth())
	authed.POST("/support/reply", supportH.Reply)
	authed.POST("/support/markRead", supportH.MarkRead)
	authed.POST("/support/closeSession", supportH.CloseSession)
	authed.POST("/support/autoAssign", assignH.AutoAssign)
	authed.POST("/support/assign", assignH.Assign)
	authed.POST("/support/unassign", assignH.Unassign)
	authed.POST("/support/getSessionAssignment", assignH.GetSessionAssignment)
	authed.POST("/support/getMySessions", assignH.ListMySessions)
	authed.POST("/support/getUnassignedSessions", assignH.ListUnassignedSessions)
	authed.POST("/support/consolidateUser", assignH.ConsolidateUser)
	authed.POST("/support/consolidateAll", assignH.ConsolidateAll)
	authed.POST("/staff/getAgents", userH.ListAgents)
	authed.POST("/order/create", orderH.Create)
	authed.POST("/order/markPaid", orderH.MarkPaid)
	authed.POST("/order/cancel", orderH.Cancel)
	authed.POST("/order/get", orderH.Get)
	authed.POST("/order/listRecent", orderH.ListRecent)

	admin := authed.Group("/")
	admin.Use(jwtMiddleware.RequireRole("admin"))
	admin.POST("/register", userH.Register)
	admin.POST("/product/create", productH.Create)
	admin.POST("/product/update", productH.Update)
	admin.POST("/product/adjustStock", productH.AdjustStock)
}
