package helper

import (
	"context"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
)

/*
PosterService is the upload facade controllers talk to. Posters are
re-encoded to WebP before hitting the bucket; deletion goes by the public
URL stored on the row, so callers never handle object keys directly.
*/
type PosterService interface {
	UploadPoster(ctx context.Context, fh *multipart.FileHeader) (publicURL string, err error)
	DeleteByPublicURL(ctx context.Context, publicURL string) error
}

type OSSPosterService struct {
	svc *OSSService
}

// NewOSSPosterServiceFromEnv builds the service from ENV. prefix is the
// bucket subdirectory (e.g. "event-posters").
func NewOSSPosterServiceFromEnv(prefix string) (*OSSPosterService, error) {
	s, err := NewOSSServiceFromEnv(prefix)
	if err != nil {
		return nil, err
	}
	return &OSSPosterService{svc: s}, nil
}

func (p *OSSPosterService) UploadPoster(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "No file provided")
	}
	return p.svc.UploadAsWebP(ctx, fh)
}

func (p *OSSPosterService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	key := p.svc.KeyFromPublicURL(publicURL)
	if key == "" {
		return nil // not ours; leave external URLs alone
	}
	return p.svc.DeleteObject(ctx, key)
}
