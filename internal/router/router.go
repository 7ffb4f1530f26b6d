package router

import (
	"backend/internal/app/attachment"
	"backend/internal/app/channel"
	"backend/internal/app/directmessage"
	"backend/internal/app/health"
	"backend/internal/app/message"
	"backend/internal/app/reaction"
	"backend/internal/app/search"
	"backend/internal/app/user"
	"backend/internal/gateways/websocket"
	"backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(logger *zap.Logger) *Router {
	engine := gin.New()
	engine.Use(middleware.CORSMiddleware())
	engine.Use(middleware.LoggerMiddleware(logger))
	engine.Use(gin.Recovery())
	return &Router{Engine: engine}
}

func (r *Router) RegisterHealthRoutes(handler health.Handler) {
	health.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterWebSocketRoutes(hub *websocket.Hub) {
	websocket.RegisterRoutes(r.Engine, hub)
}

func (r *Router) RegisterUserRoutes(handler user.Handler) {
	user.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterChannelRoutes(handler channel.Handler) {
	channel.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterMessageRoutes(handler message.Handler) {
	message.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterDirectMessageRoutes(handler directmessage.Handler) {
	directmessage.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterReactionRoutes(handler reaction.Handler) {
	reaction.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterAttachmentRoutes(handler attachment.Handler) {
	attachment.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterSearchRoutes(handler search.Handler) {
	search.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) Serve(addr string) error {
	return r.Engine.Run(addr)
}
