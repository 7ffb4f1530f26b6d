package user

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	users := rg.Group("/users")
	{
		users.GET("", handler.ListUsers)
		users.GET("/:id", handler.GetUser)
		users.PATCH("/:id/status", handler.UpdateStatus)
		users.PUT("/:id/avatar", handler.ConfigureAvatar)
	}
}
