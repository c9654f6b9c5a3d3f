package ports

import (
	"context"
	"io"

	"github.com/jupiterclapton/blog-service/internal/core/domain"
)

// --- INPUTS (Command Pattern) ---

// ImageUpload est un fichier déjà validé par la frontière HTTP (format + taille).
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type CreatePostCmd struct {
	Title   string
	Content string
	Image   *ImageUpload // nil = pas d'image
}

type UpdatePostCmd struct {
	PostID  string
	Title   string
	Content string
	Image   *ImageUpload // nil = on garde l'image actuelle
}

// --- PORT PRIMAIRE (Driving) ---

type PostService interface {
	CreatePost(ctx context.Context, cmd CreatePostCmd) (*domain.Post, error)
	GetPost(ctx context.Context, postID string) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]*domain.Post, error)
	UpdatePost(ctx context.Context, cmd UpdatePostCmd) (*domain.Post, error)
	DeletePost(ctx context.Context, postID string) error
}
