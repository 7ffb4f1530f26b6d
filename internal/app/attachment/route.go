package attachment

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	attachments := rg.Group("/attachments")
	{
		attachments.POST("", handler.SaveAttachment)
		attachments.GET("/:id", handler.GetAttachmentByID)
		attachments.GET("/channel/:channel_id", handler.GetAttachmentsByChannel)
	}
}
