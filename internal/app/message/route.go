package message

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	messages := rg.Group("/messages")
	{
		messages.POST("/:channel_id", handler.SendMessage)
		messages.GET("/:channel_id", handler.GetMessagesByChannel)
		messages.GET("/message/:id", handler.GetMessageByID)
		messages.PATCH("/message/:id", handler.EditMessage)
		messages.DELETE("/message/:id", handler.DeleteMessage)
	}
}
