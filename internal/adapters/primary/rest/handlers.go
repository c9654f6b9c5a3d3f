package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jupiterclapton/blog-service/internal/core/ports"
)

// POST /posts
func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	form, err := parsePostForm(w, r, s.opts.MaxImageBytes)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	defer form.Close()

	post, err := s.service.CreatePost(r.Context(), ports.CreatePostCmd{
		Title:   form.Title,
		Content: form.Content,
		Image:   form.Image,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(post))
}

// GET /posts
func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.service.ListPosts(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := make([]postResponse, len(posts))
	for i, p := range posts {
		resp[i] = toResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /posts/{id}
func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.service.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(post))
}

// PUT /posts/{id}
func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	form, err := parsePostForm(w, r, s.opts.MaxImageBytes)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	defer form.Close()

	post, err := s.service.UpdatePost(r.Context(), ports.UpdatePostCmd{
		PostID:  chi.URLParam(r, "id"),
		Title:   form.Title,
		Content: form.Content,
		Image:   form.Image,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(post))
}

// DELETE /posts/{id}
func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeletePost(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Post deleted successfully")
}
