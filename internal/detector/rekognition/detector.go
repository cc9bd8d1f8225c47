package rekognition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	// Register decoders so frame dimensions can be read for box scaling.
	_ "image/jpeg"
	_ "image/png"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"

	"github.com/saturnino-fabrica-de-software/lookout/internal/domain"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100

	// minSearchConfidence is the face match threshold for the known-face search
	minSearchConfidence = 80.0
	// minLabelConfidence is the label detection threshold for package detection
	minLabelConfidence = 60.0
)

// packageLabels are the Rekognition label names treated as a delivered package
var packageLabels = map[string]bool{
	"Package": true,
	"Box":     true,
	"Carton":  true,
}

// Detector produces detection results from AWS Rekognition: DetectFaces for
// face boxes, SearchFacesByImage against the known-face collection to split
// family from strangers, and DetectLabels for packages. Package theft is
// inferred from frame-to-frame state: a package that was visible in the
// previous frame and is gone now.
type Detector struct {
	client *Client

	mu              sync.Mutex
	lastPackageSeen bool
}

// NewDetector creates a Rekognition-backed detector and ensures the
// known-face collection exists.
func NewDetector(ctx context.Context, cfg Config) (*Detector, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create rekognition client: %w", err)
	}

	if err := client.EnsureCollection(ctx); err != nil {
		return nil, fmt.Errorf("ensure collection %s: %w", cfg.Collection, err)
	}

	return &Detector{client: client}, nil
}

func validateImage(img []byte) error {
	if len(img) < minImageSize {
		return domain.ErrInvalidImage
	}
	if len(img) > maxImageSize {
		return domain.ErrImageTooLarge
	}
	return nil
}

// Classify runs one detection pass over the frame.
func (d *Detector) Classify(ctx context.Context, img []byte, filename, contentType string) (*domain.DetectionResult, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}

	width, height := frameDimensions(img)

	faces, err := d.detectFaces(ctx, img, width, height)
	if err != nil {
		return nil, err
	}

	if len(faces) > 0 {
		if err := d.matchKnownFace(ctx, img, faces); err != nil {
			return nil, err
		}
	}

	packages, err := d.detectPackages(ctx, img, width, height)
	if err != nil {
		return nil, err
	}

	result := &domain.DetectionResult{
		Faces:    faces,
		Packages: packages,
	}

	for _, f := range faces {
		if f.IsStranger {
			result.StrangerDetected = true
			break
		}
	}

	result.PackageStolen = d.updatePackageState(len(packages) > 0)

	return result, nil
}

func (d *Detector) detectFaces(ctx context.Context, img []byte, width, height int) ([]domain.DetectedFace, error) {
	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: img,
		},
		Attributes: []types.Attribute{types.AttributeDefault},
	}

	output, err := d.client.rekognition.DetectFaces(ctx, input)
	if err != nil {
		return nil, mapAWSError("detect faces", err)
	}

	faces := make([]domain.DetectedFace, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		faces = append(faces, domain.DetectedFace{
			Location: scaleBox(detail.BoundingBox, width, height),
			// Flipped to family when the collection search finds a match.
			IsStranger: true,
		})
	}

	return faces, nil
}

// matchKnownFace searches the known-face collection. Rekognition searches the
// largest face in the frame; a match flips that face to family with the
// person's name taken from the ExternalImageId it was indexed under.
func (d *Detector) matchKnownFace(ctx context.Context, img []byte, faces []domain.DetectedFace) error {
	input := &rekognition.SearchFacesByImageInput{
		CollectionId:       aws.String(d.client.config.Collection),
		Image:              &types.Image{Bytes: img},
		MaxFaces:           aws.Int32(1),
		FaceMatchThreshold: aws.Float32(minSearchConfidence),
	}

	output, err := d.client.rekognition.SearchFacesByImage(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == errCodeInvalidParameter {
			// No searchable face in the frame; everyone stays a stranger.
			return nil
		}
		return mapAWSError("search faces", err)
	}

	if len(output.FaceMatches) == 0 {
		return nil
	}

	match := output.FaceMatches[0]
	name := ""
	if match.Face != nil && match.Face.ExternalImageId != nil {
		name = *match.Face.ExternalImageId
	}

	idx := largestFace(faces)
	faces[idx].IsStranger = false
	faces[idx].Name = name

	return nil
}

func (d *Detector) detectPackages(ctx context.Context, img []byte, width, height int) ([]domain.DetectedPackage, error) {
	input := &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: img},
		MinConfidence: aws.Float32(minLabelConfidence),
	}

	output, err := d.client.rekognition.DetectLabels(ctx, input)
	if err != nil {
		return nil, mapAWSError("detect labels", err)
	}

	var packages []domain.DetectedPackage
	for _, label := range output.Labels {
		if label.Name == nil || !packageLabels[*label.Name] {
			continue
		}
		for _, instance := range label.Instances {
			pkg := domain.DetectedPackage{
				Label:      "package",
				Confidence: float64(aws.ToFloat32(instance.Confidence)) / 100.0,
			}
			if instance.BoundingBox != nil {
				pkg.Location = scaleBox(instance.BoundingBox, width, height)
			}
			packages = append(packages, pkg)
		}
	}

	return packages, nil
}

// updatePackageState records whether a package is visible this frame and
// reports theft when the previous frame had one and this frame does not.
func (d *Detector) updatePackageState(seen bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	stolen := d.lastPackageSeen && !seen
	d.lastPackageSeen = seen
	return stolen
}

// frameDimensions reads the frame's pixel dimensions for box scaling.
// Undecodable frames fall back to a unit square, leaving boxes relative.
func frameDimensions(img []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return 1, 1
	}
	return cfg.Width, cfg.Height
}

// scaleBox converts a Rekognition relative bounding box to [left, top, right,
// bottom] pixel coordinates.
func scaleBox(box *types.BoundingBox, width, height int) [4]int {
	if box == nil {
		return [4]int{}
	}
	left := float64(aws.ToFloat32(box.Left)) * float64(width)
	top := float64(aws.ToFloat32(box.Top)) * float64(height)
	right := left + float64(aws.ToFloat32(box.Width))*float64(width)
	bottom := top + float64(aws.ToFloat32(box.Height))*float64(height)
	return [4]int{int(left), int(top), int(right), int(bottom)}
}

// largestFace returns the index of the face with the largest box area.
func largestFace(faces []domain.DetectedFace) int {
	best, bestArea := 0, -1
	for i, f := range faces {
		area := (f.Location[2] - f.Location[0]) * (f.Location[3] - f.Location[1])
		if area > bestArea {
			best, bestArea = i, area
		}
	}
	return best
}

// mapAWSError folds AWS failures into the detector error taxonomy.
func mapAWSError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case errCodeAccessDenied:
			return domain.ErrDetectorUnavailable.WithError(fmt.Errorf("%s: %w", op, ErrInvalidCredentials))
		case errCodeResourceNotFound:
			return domain.ErrDetectorResponse.WithError(fmt.Errorf("%s: %w", op, ErrCollectionNotFound))
		case errCodeThrottling:
			return domain.ErrDetectorUnavailable.WithError(fmt.Errorf("%s: %w", op, err))
		case errCodeInvalidParameter:
			return domain.ErrDetectorResponse.WithError(fmt.Errorf("%s: %w", op, err))
		}
	}
	return domain.ErrDetectorUnavailable.WithError(fmt.Errorf("%s: %w", op, err))
}
