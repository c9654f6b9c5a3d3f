package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/jupiterclapton/blog-service/internal/core/domain"
	"github.com/jupiterclapton/blog-service/internal/core/ports"
)

const (
	imageField = "image"
	// Marge pour les champs texte et les en-têtes multipart
	formOverhead = 1 << 20
	maxMemory    = 8 << 20
)

var allowedExtensions = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".gif": true, ".webp": true,
}

var allowedContentTypes = map[string]bool{
	"image/jpeg": true, "image/jpg": true, "image/png": true, "image/gif": true, "image/webp": true,
}

// postForm est le contenu d'une requête create/update une fois passé la frontière.
type postForm struct {
	Title   string
	Content string
	Image   *ports.ImageUpload

	file multipart.File
	form *multipart.Form
}

// Close libère le fichier et les éventuels fichiers temporaires de multipart.
func (f *postForm) Close() {
	if f.file != nil {
		f.file.Close()
	}
	if f.form != nil {
		_ = f.form.RemoveAll()
	}
}

// parsePostForm lit title/content (+ image optionnelle) et applique la validation de frontière :
// format autorisé et taille max, avant d'atteindre le service.
func parsePostForm(w http.ResponseWriter, r *http.Request, maxImageBytes int64) (*postForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+formOverhead)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, domain.NewValidationError("body", "Invalid request body")
		}
		return &postForm{Title: body.Title, Content: body.Content}, nil
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return nil, tooLarge(maxImageBytes)
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			return nil, domain.NewValidationError("body", "Invalid multipart body")
		}
		// urlencoded ou vide : ParseForm a déjà été fait par ParseMultipartForm
	}

	form := &postForm{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
		form:    r.MultipartForm,
	}

	file, header, err := r.FormFile(imageField)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return form, nil
	case err != nil:
		form.Close()
		return nil, domain.NewValidationError(imageField, "Invalid image upload")
	}
	form.file = file

	img, err := validateImage(file, header, maxImageBytes)
	if err != nil {
		form.Close()
		return nil, err
	}
	form.Image = img
	return form, nil
}

func validateImage(file multipart.File, header *multipart.FileHeader, maxImageBytes int64) (*ports.ImageUpload, error) {
	if header.Size > maxImageBytes {
		return nil, tooLarge(maxImageBytes)
	}
	if header.Size == 0 {
		return nil, domain.NewValidationError(imageField, "Image is empty")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	declared, _, _ := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if !allowedExtensions[ext] || !allowedContentTypes[declared] {
		return nil, imagesOnly()
	}

	// Le contenu doit lui aussi être une image, quoi qu'en dise le client
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, domain.NewValidationError(imageField, "Invalid image upload")
	}
	sniffed := http.DetectContentType(head[:n])
	if !allowedContentTypes[sniffed] {
		return nil, imagesOnly()
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	return &ports.ImageUpload{
		Filename:    filepath.Base(header.Filename),
		ContentType: sniffed,
		Size:        header.Size,
		Body:        file,
	}, nil
}

func imagesOnly() error {
	return domain.NewValidationError(imageField, "Images only! (jpeg, jpg, png, gif, webp)")
}

func tooLarge(limit int64) error {
	return domain.NewValidationError(imageField, fmt.Sprintf("Image exceeds the %d MB limit", limit>>20))
}
