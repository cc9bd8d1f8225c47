// Package mock provides a deterministic detector for development and tests.
package mock

import (
	"bytes"
	"context"

	"github.com/saturnino-fabrica-de-software/lookout/internal/domain"
)

// Markers that flip detection conditions when present in the frame bytes.
// They make pipeline behavior reproducible without a real engine.
var (
	markerStranger = []byte("stranger")
	markerStolen   = []byte("stolen")
	markerFamily   = []byte("family")
)

// Detector implements detector.Detector with results derived from the frame
// bytes alone.
type Detector struct{}

// New creates a new mock Detector
func New() *Detector {
	return &Detector{}
}

// Classify fabricates a detection result from byte markers in the frame.
func (d *Detector) Classify(ctx context.Context, image []byte, filename, contentType string) (*domain.DetectionResult, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidImage
	}

	result := &domain.DetectionResult{}

	if bytes.Contains(image, markerStranger) {
		result.StrangerDetected = true
		result.Faces = append(result.Faces, domain.DetectedFace{
			Location:   [4]int{10, 10, 110, 110},
			IsStranger: true,
		})
	}

	if bytes.Contains(image, markerFamily) {
		result.Faces = append(result.Faces, domain.DetectedFace{
			Location:   [4]int{120, 10, 220, 110},
			IsStranger: false,
			Name:       "resident",
		})
	}

	if bytes.Contains(image, markerStolen) {
		result.PackageStolen = true
	}

	return result, nil
}
