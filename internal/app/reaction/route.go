package reaction

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	reactions := rg.Group("/reactions")
	{
		reactions.POST("", handler.AddReaction)
		reactions.DELETE("", handler.RemoveReaction)
		reactions.GET("/:target_type/:target_id", handler.GetReactions)
	}
}
