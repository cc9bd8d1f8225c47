// Package detector defines the client surface of the external detection
// engine and a factory over its backends.
package detector

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/lookout/internal/config"
	"github.com/saturnino-fabrica-de-software/lookout/internal/detector/mock"
	"github.com/saturnino-fabrica-de-software/lookout/internal/detector/rekognition"
	"github.com/saturnino-fabrica-de-software/lookout/internal/detector/vision"
	"github.com/saturnino-fabrica-de-software/lookout/internal/domain"
)

// Detector issues one synchronous detection call per invocation. There are no
// retries; callers decide whether to re-submit. Implementations bound the call
// with a timeout and report failures as domain.ErrDetectorUnavailable or
// domain.ErrDetectorResponse.
type Detector interface {
	Classify(ctx context.Context, image []byte, filename, contentType string) (*domain.DetectionResult, error)
}

// ProviderType defines the supported detection backends
type ProviderType string

const (
	// ProviderTypeVision is the HTTP vision engine (local, for dev and on-prem)
	ProviderTypeVision ProviderType = "vision"
	// ProviderTypeRekognition is the AWS Rekognition backend (cloud)
	ProviderTypeRekognition ProviderType = "rekognition"
	// ProviderTypeMock is the deterministic backend for tests
	ProviderTypeMock ProviderType = "mock"
)

// New creates a Detector instance based on configuration.
//
// Environment variables:
//   - DETECTOR_PROVIDER: "vision", "rekognition" or "mock" (default: "vision")
//   - VISION_URL: vision engine base URL (default: "http://127.0.0.1:5001")
//   - DETECTOR_TIMEOUT: per-call timeout (default: 10s)
//   - AWS_REGION, FACE_COLLECTION: Rekognition settings (credentials via the
//     AWS SDK credential chain)
func New(ctx context.Context, cfg *config.Config) (Detector, error) {
	switch ProviderType(cfg.DetectorProvider) {
	case ProviderTypeRekognition:
		d, err := rekognition.NewDetector(ctx, rekognition.Config{
			Region:     cfg.AWSRegion,
			Collection: cfg.FaceCollection,
		})
		if err != nil {
			return nil, fmt.Errorf("create rekognition detector: %w", err)
		}
		return d, nil

	case ProviderTypeVision, "":
		return vision.NewClient(vision.Config{
			BaseURL: cfg.VisionURL,
			Timeout: cfg.DetectorTimeout,
		}), nil

	case ProviderTypeMock:
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown detector provider: %s (supported: %s, %s, %s)",
			cfg.DetectorProvider, ProviderTypeVision, ProviderTypeRekognition, ProviderTypeMock)
	}
}
