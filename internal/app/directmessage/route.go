package directmessage

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	dms := rg.Group("/direct-messages")
	{
		dms.POST("", handler.SendDirectMessage)
		dms.GET("/:user_id/:peer_id", handler.GetConversation)
		dms.PATCH("/:id", handler.EditDirectMessage)
	}
}
