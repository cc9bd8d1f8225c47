package handler

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/lookout/internal/domain"
)

const latestEventCount = 6

// IngestService runs the event pipeline for uploaded frames.
type IngestService interface {
	IngestManualEvent(ctx context.Context, eventType domain.EventType, image []byte, contentType, filename string) (*domain.Event, error)
	IngestFrame(ctx context.Context, image []byte, contentType, filename string) (*domain.DetectionResult, []domain.Event, error)
}

// EventLister reads persisted events.
type EventLister interface {
	ListAll(ctx context.Context) ([]domain.Event, error)
	ListLatest(ctx context.Context, limit int) ([]domain.Event, error)
	ListByType(ctx context.Context, eventType domain.EventType) ([]domain.Event, error)
}

// EventsHandler handles event creation and listing requests
type EventsHandler struct {
	service IngestService
	events  EventLister
	logger  *slog.Logger
}

// NewEventsHandler creates a new EventsHandler instance
func NewEventsHandler(service IngestService, events EventLister, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		service: service,
		events:  events,
		logger:  logger,
	}
}

// CreateResponse response for the create endpoint
type CreateResponse struct {
	Success bool          `json:"success"`
	Event   *domain.Event `json:"event"`
}

// Create POST /events - record an event with its frame
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	eventType := domain.EventType(strings.TrimSpace(c.FormValue("type")))

	image, contentType, filename, err := extractImage(c)
	if err != nil {
		return err
	}

	event, err := h.service.IngestManualEvent(c.Context(), eventType, image, contentType, filename)
	if err != nil {
		return err
	}

	return c.JSON(CreateResponse{
		Success: true,
		Event:   event,
	})
}

// List GET /events - all events, newest first
func (h *EventsHandler) List(c *fiber.Ctx) error {
	events, err := h.events.ListAll(c.Context())
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	return c.JSON(events)
}

// ListLatest GET /events/latest - the newest events
func (h *EventsHandler) ListLatest(c *fiber.Ctx) error {
	events, err := h.events.ListLatest(c.Context(), latestEventCount)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	return c.JSON(events)
}

// ListStrangers GET /events/strangers - stranger events, newest first
func (h *EventsHandler) ListStrangers(c *fiber.Ctx) error {
	events, err := h.events.ListByType(c.Context(), domain.EventStranger)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	return c.JSON(events)
}

// extractImage pulls the uploaded frame out of the multipart form. Content
// and size constraints are enforced downstream by the frame store.
func extractImage(c *fiber.Ctx) (data []byte, contentType, filename string, err error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, "", "", domain.ErrMissingImage.WithError(err)
	}

	f, err := file.Open()
	if err != nil {
		return nil, "", "", domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err = io.ReadAll(f)
	if err != nil {
		return nil, "", "", domain.ErrInvalidImage.WithError(err)
	}

	return data, file.Header.Get("Content-Type"), file.Filename, nil
}
