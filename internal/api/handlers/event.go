package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"recommender/internal/logger"
	"recommender/internal/models"
	"recommender/internal/recommender"
	"recommender/internal/storefront"
)

// ShopperHeader carries the storefront user id on raw event requests.
const ShopperHeader = "X-Shopper-ID"

type EventPublisher interface {
	Publish(ctx context.Context, envelope *models.Envelope) error
}

type EventHandler struct {
	sender    recommender.EventSender
	publisher EventPublisher
	logger    *logger.Logger
	timeout   time.Duration
}

// NewEventHandler forwards inline when publisher is nil, otherwise queues events.
func NewEventHandler(sender recommender.EventSender, publisher EventPublisher, logger *logger.Logger, timeout time.Duration) *EventHandler {
	return &EventHandler{
		sender:    sender,
		publisher: publisher,
		logger:    logger,
		timeout:   timeout,
	}
}

// Ingest handles POST /events/:type with an opaque JSON object body.
func (h *EventHandler) Ingest(c *gin.Context) {
	tag := recommender.Tag(c.Param("type"))

	var payload recommender.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload must be a JSON object"})
		return
	}

	timeout, err := h.requestTimeout(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shopper := strings.TrimSpace(c.GetHeader(ShopperHeader))
	h.dispatch(c, shopper, payload, tag, timeout)
}

// Storefront handles POST /storefront/:kind with a typed event body.
func (h *EventHandler) Storefront(c *gin.Context) {
	event, err := storefront.NewEvent(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if err := c.ShouldBindJSON(event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := event.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timeout, err := h.requestTimeout(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.dispatch(c, event.Shopper(), event.Payload(), event.Tag(), timeout)
}

func (h *EventHandler) dispatch(c *gin.Context, shopper string, payload recommender.Payload, tag recommender.Tag, timeout time.Duration) {
	// a client hanging up must not abort the send; the send timeout bounds it
	ctx := recommender.WithUser(context.WithoutCancel(c.Request.Context()), shopper)

	if h.publisher == nil {
		err := h.sender.Deliver(ctx, payload, tag, timeout)
		status, body := deliveryResponse(err)
		c.JSON(status, body)
		return
	}

	// queued events get the same fail-fast checks the forwarder applies
	if !tag.Valid() {
		c.JSON(deliveryResponse(&recommender.Error{Kind: recommender.KindPrecondition, Tag: tag, Err: recommender.ErrUnknownEventType}))
		return
	}
	if _, ok := recommender.UserFromContext(ctx); !ok {
		c.JSON(deliveryResponse(&recommender.Error{Kind: recommender.KindPrecondition, Tag: tag, Err: recommender.ErrUnauthenticated}))
		return
	}

	envelope := &models.Envelope{
		Type:    string(tag),
		UserID:  shopper,
		Payload: payload,
	}
	if err := h.publisher.Publish(c.Request.Context(), envelope); err != nil {
		h.logger.Error("Failed to queue %s event: %v", tag, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"queued": false, "error": "failed to queue event"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"queued": true, "id": envelope.ID})
}

func (h *EventHandler) requestTimeout(c *gin.Context) (time.Duration, error) {
	raw := c.Query("timeout_ms")
	if raw == "" {
		return h.timeout, nil
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return 0, errors.New("timeout_ms must be a positive integer")
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func deliveryResponse(err error) (int, gin.H) {
	kind := recommender.KindOf(err)
	if kind == recommender.KindNone {
		return http.StatusOK, gin.H{"delivered": true}
	}

	body := gin.H{
		"delivered":  false,
		"error_kind": kind.String(),
		"error":      err.Error(),
	}

	switch kind {
	case recommender.KindPrecondition:
		if errors.Is(err, recommender.ErrUnauthenticated) {
			return http.StatusUnauthorized, body
		}
		return http.StatusBadRequest, body
	case recommender.KindSerialization:
		return http.StatusBadRequest, body
	case recommender.KindConfiguration:
		return http.StatusInternalServerError, body
	default:
		return http.StatusBadGateway, body
	}
}
