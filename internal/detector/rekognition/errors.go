package rekognition

import "errors"

var (
	// ErrCollectionNotFound indicates that the known-face collection does not exist
	ErrCollectionNotFound = errors.New("rekognition collection not found")

	// ErrInvalidCredentials indicates that AWS credentials are invalid or missing
	ErrInvalidCredentials = errors.New("invalid or missing AWS credentials")
)
