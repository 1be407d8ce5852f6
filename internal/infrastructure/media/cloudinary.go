package media

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/yoquet/backend/internal/infrastructure/config"
)

// UploadResult describes an asset after upload
type UploadResult struct {
	PublicID  string
	SecureURL string
}

// CDN is the image delivery network the catalog stores its assets on
type CDN interface {
	Upload(ctx context.Context, file io.Reader, publicID string) (*UploadResult, error)
	AssetExists(ctx context.Context, publicID string) (bool, error)
}

// CloudinaryCDN implements CDN against the Cloudinary API
type CloudinaryCDN struct {
	client *cloudinary.Cloudinary
	folder string
	logger *zap.Logger
}

// NewCloudinaryCDN creates a Cloudinary client from media configuration
func NewCloudinaryCDN(cfg config.MediaConfig, logger *zap.Logger) (*CloudinaryCDN, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &CloudinaryCDN{
		client: client,
		folder: cfg.Folder,
		logger: logger,
	}, nil
}

// Upload pushes a file to the CDN under the configured folder
func (c *CloudinaryCDN) Upload(ctx context.Context, file io.Reader, publicID string) (*UploadResult, error) {
	resp, err := c.client.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:    c.folder,
		PublicID:  publicID,
		Overwrite: api.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload failed: %s", resp.Error.Message)
	}

	c.logger.Info("uploaded asset to cloudinary",
		zap.String("public_id", resp.PublicID),
		zap.String("url", resp.SecureURL),
	)
	return &UploadResult{PublicID: resp.PublicID, SecureURL: resp.SecureURL}, nil
}

// AssetExists checks whether an asset is present on the CDN
func (c *CloudinaryCDN) AssetExists(ctx context.Context, publicID string) (bool, error) {
	resp, err := c.client.Admin.Asset(ctx, admin.AssetParams{PublicID: publicID})
	if err != nil {
		return false, fmt.Errorf("cloudinary asset lookup failed: %w", err)
	}
	if resp.Error.Message != "" {
		// the admin API reports missing assets as an in-body error
		return false, nil
	}
	return resp.PublicID != "", nil
}
