package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/blog-service/internal/core/domain"
	"github.com/jupiterclapton/blog-service/internal/core/ports"
)

const postColumns = `id, title, content, image_url, image_id, author_id, created_at, updated_at`

// Le CHECK garantit que image_url et image_id sont NULL ensemble ou renseignés ensemble.
const schema = `
CREATE TABLE IF NOT EXISTS posts (
	id         UUID PRIMARY KEY,
	title      VARCHAR(100)  NOT NULL,
	content    VARCHAR(5000) NOT NULL,
	image_url  TEXT,
	image_id   TEXT,
	author_id  UUID,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	CONSTRAINT posts_image_pair CHECK ((image_url IS NULL) = (image_id IS NULL))
);
CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC);
CREATE INDEX IF NOT EXISTS posts_search_idx ON posts USING GIN (to_tsvector('english', title || ' ' || content));
`

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

var _ ports.PostRepository = (*PostgresRepo)(nil)

// EnsureSchema crée la table et les index (idempotent).
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("db: ensure schema: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Insert(ctx context.Context, post *domain.Post) error {
	q := `
		INSERT INTO posts (` + postColumns + `)
		VALUES (@id, @title, @content, @image_url, @image_id, @author_id, @created_at, @updated_at)
	`
	id := uuid.NewString()
	imageURL, imageID := imageFields(post.Image)

	args := pgx.NamedArgs{
		"id":         id,
		"title":      post.Title,
		"content":    post.Content,
		"image_url":  imageURL,
		"image_id":   imageID,
		"author_id":  nullableString(post.AuthorID),
		"created_at": post.CreatedAt,
		"updated_at": post.UpdatedAt,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("db: insert post: %w", err)
	}
	post.ID = id
	return nil
}

func (r *PostgresRepo) FindByID(ctx context.Context, postID string) (*domain.Post, error) {
	if uuid.Validate(postID) != nil {
		return nil, domain.NewNotFoundError(postID)
	}
	q := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return r.scanPost(postID, r.db.QueryRow(ctx, q, postID))
}

func (r *PostgresRepo) Update(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	if uuid.Validate(post.ID) != nil {
		return nil, domain.NewNotFoundError(post.ID)
	}
	q := `
		UPDATE posts
		SET title = @title, content = @content, image_url = @image_url, image_id = @image_id, updated_at = @updated_at
		WHERE id = @id
		RETURNING ` + postColumns
	imageURL, imageID := imageFields(post.Image)

	args := pgx.NamedArgs{
		"id":         post.ID,
		"title":      post.Title,
		"content":    post.Content,
		"image_url":  imageURL,
		"image_id":   imageID,
		"updated_at": post.UpdatedAt,
	}
	return r.scanPost(post.ID, r.db.QueryRow(ctx, q, args))
}

func (r *PostgresRepo) Delete(ctx context.Context, postID string) (*domain.Post, error) {
	if uuid.Validate(postID) != nil {
		return nil, domain.NewNotFoundError(postID)
	}
	q := `DELETE FROM posts WHERE id = $1 RETURNING ` + postColumns
	return r.scanPost(postID, r.db.QueryRow(ctx, q, postID))
}

func (r *PostgresRepo) List(ctx context.Context) ([]*domain.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("db: list posts: %w", err)
	}
	defer rows.Close()

	posts := []*domain.Post{}
	for rows.Next() {
		var row sqlPost
		if err := rows.Scan(row.targets()...); err != nil {
			return nil, fmt.Errorf("db: scan post: %w", err)
		}
		posts = append(posts, row.toDomain())
	}
	return posts, rows.Err()
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// --- HELPERS ---

// sqlPost sert de tampon entre les colonnes NULLables et le domaine.
type sqlPost struct {
	ID        string
	Title     string
	Content   string
	ImageURL  *string
	ImageID   *string
	AuthorID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *sqlPost) targets() []any {
	return []any{&s.ID, &s.Title, &s.Content, &s.ImageURL, &s.ImageID, &s.AuthorID, &s.CreatedAt, &s.UpdatedAt}
}

func (s *sqlPost) toDomain() *domain.Post {
	p := &domain.Post{
		ID:        s.ID,
		Title:     s.Title,
		Content:   s.Content,
		CreatedAt: s.CreatedAt.UTC(),
		UpdatedAt: s.UpdatedAt.UTC(),
	}
	if s.ImageURL != nil && s.ImageID != nil {
		p.Image = &domain.Image{URL: *s.ImageURL, ID: *s.ImageID}
	}
	if s.AuthorID != nil {
		p.AuthorID = *s.AuthorID
	}
	return p
}

func (r *PostgresRepo) scanPost(postID string, row pgx.Row) (*domain.Post, error) {
	var s sqlPost
	if err := row.Scan(s.targets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError(postID)
		}
		return nil, fmt.Errorf("db: scan post: %w", err)
	}
	return s.toDomain(), nil
}

func nullableString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
