package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/lookout/internal/domain"
	"github.com/saturnino-fabrica-de-software/lookout/internal/store"
)

// FramesHandler serves stored frames back to clients
type FramesHandler struct {
	frames store.FrameStore
}

// NewFramesHandler creates a new FramesHandler instance
func NewFramesHandler(frames store.FrameStore) *FramesHandler {
	return &FramesHandler{frames: frames}
}

// Serve GET /uploads/:handle - stream a stored frame
func (h *FramesHandler) Serve(c *fiber.Ctx) error {
	handle := store.Handle(c.Params("handle"))

	reader, err := h.frames.Open(c.Context(), handle)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrFrameNotFound.WithError(err)
		}
		return domain.ErrInternal.WithError(err)
	}

	c.Set(fiber.HeaderContentType, handle.ContentType())
	return c.SendStream(reader)
}
