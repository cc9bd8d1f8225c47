package rekognition

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/smithy-go"
)

const (
	errCodeAccessDenied     = "AccessDeniedException"
	errCodeResourceNotFound = "ResourceNotFoundException"
	errCodeResourceExists   = "ResourceAlreadyExistsException"
	errCodeInvalidParameter = "InvalidParameterException"
	errCodeThrottling       = "ThrottlingException"
)

// Config holds configuration for the AWS Rekognition detector
type Config struct {
	// Region is the AWS region where Rekognition will be used (e.g. "us-east-1")
	Region string

	// Collection is the face collection holding the household's known faces.
	// Faces are indexed out-of-band with their person name as ExternalImageId.
	Collection string
}

// Client wraps the AWS Rekognition client and manages the known-face collection
type Client struct {
	rekognition *rekognition.Client
	config      Config
}

// NewClient creates a new Rekognition client using the AWS default credential chain
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Client{
		rekognition: rekognition.NewFromConfig(awsCfg),
		config:      cfg,
	}, nil
}

// CollectionExists checks whether the configured collection exists
func (c *Client) CollectionExists(ctx context.Context) (bool, error) {
	input := &rekognition.DescribeCollectionInput{
		CollectionId: aws.String(c.config.Collection),
	}

	_, err := c.rekognition.DescribeCollection(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case errCodeResourceNotFound:
				return false, nil
			case errCodeAccessDenied:
				return false, fmt.Errorf("collection %s: %w", c.config.Collection, ErrInvalidCredentials)
			}
		}
		return false, fmt.Errorf("failed to describe collection %s: %w", c.config.Collection, err)
	}

	return true, nil
}

// EnsureCollection creates the collection if it does not exist yet
func (c *Client) EnsureCollection(ctx context.Context) error {
	exists, err := c.CollectionExists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if exists {
		return nil
	}

	input := &rekognition.CreateCollectionInput{
		CollectionId: aws.String(c.config.Collection),
	}

	if _, err := c.rekognition.CreateCollection(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case errCodeResourceExists:
				// Created concurrently
				return nil
			case errCodeAccessDenied:
				return fmt.Errorf("collection %s: %w", c.config.Collection, ErrInvalidCredentials)
			}
		}
		return fmt.Errorf("failed to create collection %s: %w", c.config.Collection, err)
	}

	return nil
}
