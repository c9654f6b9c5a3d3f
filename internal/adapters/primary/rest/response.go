package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jupiterclapton/blog-service/internal/core/domain"
)

// postResponse garde la forme JSON attendue par le client (_id, imageUrl, hasImage...).
type postResponse struct {
	MongoID   string    `json:"_id"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"imageUrl"`
	ImageID   *string   `json:"imageId"`
	HasImage  bool      `json:"hasImage"`
	Author    *string   `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toResponse(p *domain.Post) postResponse {
	resp := postResponse{
		MongoID:   p.ID,
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		HasImage:  p.HasImage(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Image != nil {
		url, id := p.Image.URL, p.Image.ID
		resp.ImageURL, resp.ImageID = &url, &id
	}
	if p.AuthorID != "" {
		author := p.AuthorID
		resp.Author = &author
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// handleServiceError traduit les erreurs du domaine en réponses HTTP.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsNotFound(err):
		writeMessage(w, http.StatusNotFound, "Post not found")

	case domain.IsValidationError(err):
		writeMessage(w, http.StatusBadRequest, err.Error())

	case domain.IsMediaUploadError(err):
		slog.WarnContext(r.Context(), "Image upload failed", "error", err)
		writeMessage(w, http.StatusBadRequest, "Image upload failed")

	default:
		// Ne pas exposer les détails internes au client
		slog.ErrorContext(r.Context(), "Unexpected error in post handler", "method", r.Method, "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
	}
}
