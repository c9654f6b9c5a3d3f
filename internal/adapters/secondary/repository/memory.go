package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jupiterclapton/blog-service/internal/core/domain"
	"github.com/jupiterclapton/blog-service/internal/core/ports"
)

type memoryEntry struct {
	post *domain.Post
	seq  uint64 // ordre d'insertion, départage les created_at identiques
}

// MemoryRepo garde les posts en RAM. Utilisé en local (STORE_DRIVER=memory) et dans les tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	posts map[string]memoryEntry
	seq   uint64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{posts: make(map[string]memoryEntry)}
}

var _ ports.PostRepository = (*MemoryRepo)(nil)

func (r *MemoryRepo) Insert(ctx context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = uuid.NewString()
	r.seq++
	r.posts[post.ID] = memoryEntry{post: clonePost(post), seq: r.seq}
	return nil
}

func (r *MemoryRepo) FindByID(ctx context.Context, postID string) (*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.posts[postID]
	if !ok {
		return nil, domain.NewNotFoundError(postID)
	}
	return clonePost(e.post), nil
}

func (r *MemoryRepo) Update(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.posts[post.ID]
	if !ok {
		return nil, domain.NewNotFoundError(post.ID)
	}
	// created_at et l'auteur ne bougent jamais
	stored := clonePost(post)
	stored.CreatedAt = e.post.CreatedAt
	stored.AuthorID = e.post.AuthorID
	r.posts[post.ID] = memoryEntry{post: stored, seq: e.seq}
	return clonePost(stored), nil
}

func (r *MemoryRepo) Delete(ctx context.Context, postID string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.posts[postID]
	if !ok {
		return nil, domain.NewNotFoundError(postID)
	}
	delete(r.posts, postID)
	return e.post, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]*domain.Post, error) {
	r.mu.RLock()
	entries := make([]memoryEntry, 0, len(r.posts))
	for _, e := range r.posts {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.post.CreatedAt.Equal(b.post.CreatedAt) {
			return a.post.CreatedAt.After(b.post.CreatedAt)
		}
		return a.seq > b.seq
	})

	posts := make([]*domain.Post, len(entries))
	for i, e := range entries {
		posts[i] = clonePost(e.post)
	}
	return posts, nil
}

func (r *MemoryRepo) Ping(ctx context.Context) error { return nil }

func clonePost(p *domain.Post) *domain.Post {
	c := *p
	if p.Image != nil {
		img := *p.Image
		c.Image = &img
	}
	return &c
}
