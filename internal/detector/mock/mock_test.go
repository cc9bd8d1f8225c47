package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/lookout/internal/domain"
)

func TestDetector_Classify(t *testing.T) {
	d := New()
	ctx := context.Background()

	t.Run("empty frame is rejected", func(t *testing.T) {
		_, err := d.Classify(ctx, nil, "f.jpg", "image/jpeg")
		assert.ErrorIs(t, err, domain.ErrInvalidImage)
	})

	t.Run("plain frame yields empty result", func(t *testing.T) {
		result, err := d.Classify(ctx, []byte("jpeg-bytes"), "f.jpg", "image/jpeg")
		require.NoError(t, err)
		assert.False(t, result.StrangerDetected)
		assert.False(t, result.PackageStolen)
		assert.Empty(t, result.Faces)
	})

	t.Run("markers flip conditions", func(t *testing.T) {
		result, err := d.Classify(ctx, []byte("stranger family stolen"), "f.jpg", "image/jpeg")
		require.NoError(t, err)
		assert.True(t, result.StrangerDetected)
		assert.True(t, result.PackageStolen)
		require.Len(t, result.Faces, 2)
		assert.True(t, result.Faces[0].IsStranger)
		assert.False(t, result.Faces[1].IsStranger)
		assert.Equal(t, "resident", result.Faces[1].Name)
	})
}
