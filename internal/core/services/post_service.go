package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jupiterclapton/blog-service/internal/core/domain"
	"github.com/jupiterclapton/blog-service/internal/core/ports"
)

type service struct {
	repo      ports.PostRepository
	media     ports.MediaStore
	publisher ports.EventPublisher
	now       func() time.Time
}

func NewPostService(repo ports.PostRepository, media ports.MediaStore, pub ports.EventPublisher) ports.PostService {
	return &service{
		repo:      repo,
		media:     media,
		publisher: pub,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) CreatePost(ctx context.Context, cmd ports.CreatePostCmd) (*domain.Post, error) {
	// 1. Fail fast : validation avant tout appel réseau
	post, err := domain.NewPost(cmd.Title, cmd.Content, nil, s.now())
	if err != nil {
		return nil, err
	}

	// 2. Upload avant la persistance pour écrire url+id avec le reste du document
	if cmd.Image != nil {
		img, err := s.upload(ctx, *cmd.Image)
		if err != nil {
			return nil, err
		}
		post.Image = img
	}

	// 3. Sauvegarde DB (Source of Truth)
	if err := s.repo.Insert(ctx, post); err != nil {
		s.discardUpload(ctx, post.Image, "create failed")
		return nil, fmt.Errorf("insert post: %w", err)
	}

	if err := s.publisher.PublishPostCreated(ctx, post); err != nil {
		slog.WarnContext(ctx, "Failed to publish post.created", "post_id", post.ID, "error", err)
	}

	return post, nil
}

func (s *service) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	return s.repo.FindByID(ctx, postID)
}

func (s *service) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*domain.Post{}
	}
	return posts, nil
}

func (s *service) UpdatePost(ctx context.Context, cmd ports.UpdatePostCmd) (*domain.Post, error) {
	// 1. Validation des champs (aucun effet de bord)
	if _, _, err := domain.ValidateContent(cmd.Title, cmd.Content); err != nil {
		return nil, err
	}

	// 2. Récupérer l'existant, avant toute interaction avec le media store
	post, err := s.repo.FindByID(ctx, cmd.PostID)
	if err != nil {
		return nil, err
	}
	previous := post.Image

	// Champs appliqués sur la copie en mémoire, avant l'upload : rien à nettoyer si Edit refuse.
	if err := post.Edit(cmd.Title, cmd.Content, nil, s.now()); err != nil {
		return nil, err
	}

	// 3. Upload de la nouvelle image. Un échec ici laisse le post intact.
	var uploaded *domain.Image
	if cmd.Image != nil {
		uploaded, err = s.upload(ctx, *cmd.Image)
		if err != nil {
			return nil, err
		}
		post.Image = uploaded
	}

	// 4. Sauvegarde des nouveaux champs (titre, contenu, image) en une seule écriture
	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		s.discardUpload(ctx, uploaded, "update failed")
		return nil, err
	}

	// 5. L'ancienne image n'est plus référencée : nettoyage best-effort.
	// Supprimée après l'écriture, jamais de post pointant vers un asset effacé.
	if uploaded != nil && previous != nil && previous.ID != uploaded.ID {
		s.discardUpload(ctx, previous, "image replaced")
	}

	if err := s.publisher.PublishPostUpdated(ctx, updated); err != nil {
		slog.WarnContext(ctx, "Failed to publish post.updated", "post_id", updated.ID, "error", err)
	}

	return updated, nil
}

func (s *service) DeletePost(ctx context.Context, postID string) error {
	// La suppression du document est l'opération de référence
	deleted, err := s.repo.Delete(ctx, postID)
	if err != nil {
		return err
	}

	s.discardUpload(ctx, deleted.Image, "post deleted")

	if err := s.publisher.PublishPostDeleted(ctx, postID); err != nil {
		slog.WarnContext(ctx, "Failed to publish post.deleted", "post_id", postID, "error", err)
	}
	return nil
}

// --- HELPERS ---

func (s *service) upload(ctx context.Context, img ports.ImageUpload) (*domain.Image, error) {
	uploaded, err := s.media.Upload(ctx, img)
	if err != nil {
		return nil, &domain.MediaUploadError{Err: err}
	}
	if uploaded == nil || uploaded.ID == "" || uploaded.URL == "" {
		return nil, &domain.MediaUploadError{Err: fmt.Errorf("media store returned an incomplete image")}
	}
	return uploaded, nil
}

// discardUpload supprime un asset qui n'est (ou ne sera) plus référencé.
// Best-effort : l'erreur est volontairement absorbée par reportOrphan et ne change
// jamais le résultat de l'opération appelante.
func (s *service) discardUpload(ctx context.Context, img *domain.Image, reason string) {
	if img == nil {
		return
	}
	if err := s.media.Delete(ctx, img.ID); err != nil {
		s.reportOrphan(ctx, &domain.MediaDeleteError{ImageID: img.ID, Err: err}, reason)
	}
}

// reportOrphan est le canal de diagnostic des assets orphelins : log + événement opérateur.
func (s *service) reportOrphan(ctx context.Context, derr *domain.MediaDeleteError, reason string) {
	slog.WarnContext(ctx, "Could not delete image from media store",
		"image_id", derr.ImageID,
		"reason", reason,
		"error", derr.Err,
	)
	if err := s.publisher.PublishMediaOrphaned(ctx, derr.ImageID, reason); err != nil {
		slog.WarnContext(ctx, "Failed to publish media.orphaned", "image_id", derr.ImageID, "error", err)
	}
}
