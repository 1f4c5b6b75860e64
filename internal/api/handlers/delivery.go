package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"recommender/internal/models"
)

type DeliveryLog interface {
	List(ctx context.Context, limit int, eventType string) ([]models.Delivery, error)
	Get(ctx context.Context, id string) (*models.Delivery, error)
}

type DeliveryHandler struct {
	deliveries DeliveryLog
}

func NewDeliveryHandler(deliveries DeliveryLog) *DeliveryHandler {
	return &DeliveryHandler{
		deliveries: deliveries,
	}
}

func (h *DeliveryHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	deliveries, err := h.deliveries.List(c.Request.Context(), limit, c.Query("type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch deliveries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": deliveries})
}

func (h *DeliveryHandler) Get(c *gin.Context) {
	id := c.Param("id")

	delivery, err := h.deliveries.Get(c.Request.Context(), id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Delivery not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch delivery"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": delivery})
}
