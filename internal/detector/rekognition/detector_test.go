package rekognition

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"

	"github.com/saturnino-fabrica-de-software/lookout/internal/domain"
)

func TestScaleBox(t *testing.T) {
	box := &types.BoundingBox{
		Left:   aws.Float32(0.1),
		Top:    aws.Float32(0.2),
		Width:  aws.Float32(0.5),
		Height: aws.Float32(0.25),
	}

	got := scaleBox(box, 1000, 800)
	assert.Equal(t, [4]int{100, 160, 600, 360}, got)

	assert.Equal(t, [4]int{}, scaleBox(nil, 1000, 800))
}

func TestLargestFace(t *testing.T) {
	faces := []domain.DetectedFace{
		{Location: [4]int{0, 0, 10, 10}},
		{Location: [4]int{0, 0, 100, 100}},
		{Location: [4]int{0, 0, 50, 50}},
	}

	assert.Equal(t, 1, largestFace(faces))
}

func TestUpdatePackageState(t *testing.T) {
	d := &Detector{}

	// No package yet: nothing to steal.
	assert.False(t, d.updatePackageState(false))

	// Package arrives and stays.
	assert.False(t, d.updatePackageState(true))
	assert.False(t, d.updatePackageState(true))

	// Package disappears: stolen once, not again.
	assert.True(t, d.updatePackageState(false))
	assert.False(t, d.updatePackageState(false))
}

func TestValidateImage(t *testing.T) {
	assert.ErrorIs(t, validateImage(make([]byte, 10)), domain.ErrInvalidImage)
	assert.ErrorIs(t, validateImage(make([]byte, maxImageSize+1)), domain.ErrImageTooLarge)
	assert.NoError(t, validateImage(make([]byte, 5000)))
}
