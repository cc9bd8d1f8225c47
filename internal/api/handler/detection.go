package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/lookout/internal/domain"
	"github.com/saturnino-fabrica-de-software/lookout/internal/ws"
)

var errNoScanModes = errors.New("detection backend has no scan modes")

// Publisher pushes messages to connected websocket clients.
type Publisher interface {
	Publish(channel ws.Channel, data interface{})
}

// EngineController switches the detection engine between its scan modes.
// Only engines that run their own camera feed implement it.
type EngineController interface {
	ScanFaces(ctx context.Context) (json.RawMessage, error)
	WatchParcel(ctx context.Context) (json.RawMessage, error)
}

// DetectionHandler handles detection pipeline and camera signalling requests
type DetectionHandler struct {
	service   IngestService
	publisher Publisher
	engine    EngineController
	logger    *slog.Logger
}

// NewDetectionHandler creates a new DetectionHandler instance. The engine
// controller may be nil when the configured backend has no scan modes.
func NewDetectionHandler(service IngestService, publisher Publisher, engine EngineController, logger *slog.Logger) *DetectionHandler {
	return &DetectionHandler{
		service:   service,
		publisher: publisher,
		engine:    engine,
		logger:    logger,
	}
}

// SuccessResponse is the bare acknowledgement body
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ProcessImage POST /process-image - run the detection pipeline on a frame
//
// The response is always the raw detection result; derived events are
// persisted and broadcast as a side effect.
func (h *DetectionHandler) ProcessImage(c *fiber.Ctx) error {
	image, contentType, filename, err := extractImage(c)
	if err != nil {
		return err
	}

	result, events, err := h.service.IngestFrame(c.Context(), image, contentType, filename)
	if err != nil {
		return err
	}

	if len(events) > 0 {
		h.logger.Info("detection events recorded",
			slog.Int("count", len(events)),
			slog.String("image_path", events[0].ImagePath),
		)
	}

	return c.JSON(result)
}

// ScanFaces POST /detect-faces - ask the engine to face-scan its live feed
func (h *DetectionHandler) ScanFaces(c *fiber.Ctx) error {
	if h.engine == nil {
		return domain.ErrDetectorUnavailable.WithError(errNoScanModes)
	}

	reply, err := h.engine.ScanFaces(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(reply)
}

// WatchParcel POST /monitor-parcel - put the engine into parcel-watch mode
func (h *DetectionHandler) WatchParcel(c *fiber.Ctx) error {
	if h.engine == nil {
		return domain.ErrDetectorUnavailable.WithError(errNoScanModes)
	}

	reply, err := h.engine.WatchParcel(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(reply)
}

// TriggerCamera POST /camera/trigger - ask connected cameras to open a stream
func (h *DetectionHandler) TriggerCamera(c *fiber.Ctx) error {
	h.publisher.Publish(ws.ChannelCameraOpen, nil)

	return c.JSON(SuccessResponse{Success: true})
}

// PublishLiveDetections POST /live-detections - republish live detection data
//
// The body is forwarded verbatim to subscribers; nothing is persisted.
func (h *DetectionHandler) PublishLiveDetections(c *fiber.Ctx) error {
	var payload json.RawMessage
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	h.publisher.Publish(ws.ChannelDetectionLive, payload)

	return c.JSON(SuccessResponse{Success: true})
}
