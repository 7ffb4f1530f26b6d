package reaction

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	AddReaction(c *gin.Context)
	RemoveReaction(c *gin.Context)
	GetReactions(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func (h *handler) AddReaction(c *gin.Context) {
	var req AddReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	r, err := h.service.Add(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *handler) RemoveReaction(c *gin.Context) {
	var req RemoveReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.service.Remove(req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) GetReactions(c *gin.Context) {
	targetType := c.Param("target_type")
	if targetType != TargetMessage && targetType != TargetDirectMessage {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target type"})
		return
	}
	targetID, err := strconv.ParseUint(c.Param("target_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target ID"})
		return
	}

	groups, err := h.service.ListGrouped(targetType, targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get reactions"})
		return
	}
	c.JSON(http.StatusOK, groups)
}
