package ports

import (
	"context"

	"github.com/jupiterclapton/blog-service/internal/core/domain"
)

// --- PERSISTANCE ---

// PostRepository est le seul écrivain de l'état persistant d'un post.
// Les implémentations renvoient une erreur compatible domain.ErrPostNotFound quand l'ID est inconnu.
type PostRepository interface {
	// Insert attribue l'ID et l'écrit dans post.
	Insert(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, postID string) (*domain.Post, error)
	// Update remplace titre, contenu, image et updated_at, puis renvoie l'état persisté.
	Update(ctx context.Context, post *domain.Post) (*domain.Post, error)
	// Delete supprime et renvoie le document supprimé (on a besoin de son image).
	Delete(ctx context.Context, postID string) (*domain.Post, error)
	// List renvoie tous les posts, les plus récents d'abord.
	List(ctx context.Context) ([]*domain.Post, error)
	Ping(ctx context.Context) error
}

// --- MEDIA STORE ---

type MediaStore interface {
	Upload(ctx context.Context, img ImageUpload) (*domain.Image, error)
	// Delete doit tolérer un ID déjà absent.
	Delete(ctx context.Context, imageID string) error
}

// --- MESSAGERIE (BROKER) ---

type EventPublisher interface {
	PublishPostCreated(ctx context.Context, post *domain.Post) error
	PublishPostUpdated(ctx context.Context, post *domain.Post) error
	PublishPostDeleted(ctx context.Context, postID string) error
	PublishMediaOrphaned(ctx context.Context, imageID, reason string) error
}
