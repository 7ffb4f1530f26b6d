package channel

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	channels := rg.Group("/channels")
	{
		channels.POST("", handler.CreateChannel)
		channels.GET("", handler.ListChannels)
		channels.GET("/:id", handler.GetChannel)
	}
}
