package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saturnino-fabrica-de-software/lookout/internal/classify"
	"github.com/saturnino-fabrica-de-software/lookout/internal/detector"
	"github.com/saturnino-fabrica-de-software/lookout/internal/domain"
	"github.com/saturnino-fabrica-de-software/lookout/internal/store"
	"github.com/saturnino-fabrica-de-software/lookout/internal/ws"
)

type EventInserter interface {
	Insert(ctx context.Context, draft domain.EventDraft) (*domain.Event, error)
}

// Publisher pushes messages to connected websocket clients. Delivery is
// best-effort and never blocks ingestion.
type Publisher interface {
	Publish(channel ws.Channel, data interface{})
}

type IngestService struct {
	frames    store.FrameStore
	detector  detector.Detector
	events    EventInserter
	publisher Publisher
	logger    *slog.Logger
}

func NewIngestService(
	frames store.FrameStore,
	det detector.Detector,
	events EventInserter,
	publisher Publisher,
	logger *slog.Logger,
) *IngestService {
	return &IngestService{
		frames:    frames,
		detector:  det,
		events:    events,
		publisher: publisher,
		logger:    logger,
	}
}

// IngestManualEvent stores a frame and persists a single event of the given
// type. An empty type is recorded as unknown. If the insert fails the stored
// frame is removed again so no orphan frame remains.
func (s *IngestService) IngestManualEvent(ctx context.Context, eventType domain.EventType, image []byte, contentType, filename string) (*domain.Event, error) {
	if eventType == "" {
		eventType = domain.EventUnknown
	}

	handle, err := s.frames.Store(ctx, image, contentType, filename)
	if err != nil {
		return nil, err
	}

	event, err := s.events.Insert(ctx, domain.EventDraft{
		Type:      eventType,
		ImagePath: handle.URLPath(),
	})
	if err != nil {
		if delErr := s.frames.Delete(ctx, handle); delErr != nil {
			s.logger.Warn("failed to remove frame after insert failure",
				slog.String("handle", string(handle)),
				slog.Any("error", delErr),
			)
		}
		return nil, domain.ErrEventPersist.WithError(err)
	}

	s.announce(*event)

	return event, nil
}

// IngestFrame runs the full pipeline on a camera frame: store, detect,
// classify, persist one event per classified draft. Detector failures leave
// the stored frame in place for later reprocessing. A draft whose insert
// fails is logged and skipped; the detection result is returned either way.
func (s *IngestService) IngestFrame(ctx context.Context, image []byte, contentType, filename string) (*domain.DetectionResult, []domain.Event, error) {
	handle, err := s.frames.Store(ctx, image, contentType, filename)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.detector.Classify(ctx, image, filename, contentType)
	if err != nil {
		return nil, nil, fmt.Errorf("classify frame %s: %w", handle, err)
	}

	drafts := classify.Classify(result, handle.URLPath())

	events := make([]domain.Event, 0, len(drafts))
	for _, draft := range drafts {
		event, err := s.events.Insert(ctx, draft)
		if err != nil {
			s.logger.Error("failed to persist detection event",
				slog.String("type", string(draft.Type)),
				slog.String("image_path", draft.ImagePath),
				slog.Any("error", err),
			)
			continue
		}

		events = append(events, *event)
		s.announce(*event)
	}

	return result, events, nil
}

// announce broadcasts a persisted event. Strangers additionally raise an
// alert on their dedicated channel.
func (s *IngestService) announce(event domain.Event) {
	s.publisher.Publish(ws.ChannelEventCreated, event)

	if event.Type == domain.EventStranger {
		s.publisher.Publish(ws.ChannelAlertStranger, event)
	}
}
