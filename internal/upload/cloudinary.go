package upload

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader stores a payment proof and returns a durable URL reference.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// CloudinaryUploader uploads proofs into the paymentProofs folder of the
// configured Cloudinary account.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       "paymentProofs",
		PublicID:     filename,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("upload payment proof: %w", err)
	}
	return resp.SecureURL, nil
}
