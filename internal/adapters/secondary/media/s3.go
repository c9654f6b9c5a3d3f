package media

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/jupiterclapton/blog-service/internal/core/domain"
	"github.com/jupiterclapton/blog-service/internal/core/ports"
)

type S3Config struct {
	Bucket    string
	Folder    string
	PublicURL string // CDN devant le bucket ; vide = URL renvoyée par S3
}

// S3Store héberge les images dans un bucket S3 (ou compatible : MinIO, R2...).
// L'ID de l'image est la clé de l'objet.
type S3Store struct {
	client   s3iface.S3API
	uploader *s3manager.Uploader
	cfg      S3Config
}

func NewS3Store(sess *session.Session, cfg S3Config) *S3Store {
	client := s3.New(sess)
	return &S3Store{
		client:   client,
		uploader: s3manager.NewUploaderWithClient(client),
		cfg:      cfg,
	}
}

var _ ports.MediaStore = (*S3Store)(nil)

func (s *S3Store) Upload(ctx context.Context, img ports.ImageUpload) (*domain.Image, error) {
	key := objectKey(s.cfg.Folder, img.Filename, img.ContentType)

	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        img.Body,
		ContentType: aws.String(img.ContentType),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 upload %s: %w", key, err)
	}

	url := out.Location
	if s.cfg.PublicURL != "" {
		url = publicURL(s.cfg.PublicURL, key)
	}
	slog.DebugContext(ctx, "Image uploaded", "bucket", s.cfg.Bucket, "key", key)

	return &domain.Image{URL: url, ID: key}, nil
}

// Delete : S3 répond 204 même si l'objet n'existe plus.
func (s *S3Store) Delete(ctx context.Context, imageID string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(imageID),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", imageID, err)
	}
	return nil
}
