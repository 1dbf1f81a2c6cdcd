package route

import (
	"context"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
)

// disabledPosterService rejects uploads when no bucket is configured
// (local dev without OSS credentials).
type disabledPosterService struct{}

func (disabledPosterService) UploadPoster(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	return "", fiber.NewError(fiber.StatusServiceUnavailable, "Poster uploads are not configured")
}

func (disabledPosterService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	return nil
}
