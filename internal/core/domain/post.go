package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLength   = 100
	MaxContentLength = 5000
)

// Image est l'asset hébergé par le media store.
// URL et ID vont toujours ensemble : un post a une image complète ou pas d'image du tout.
type Image struct {
	URL string
	ID  string
}

type Post struct {
	ID        string
	Title     string
	Content   string
	Image     *Image // nil = pas d'image
	AuthorID  string // Réservé, jamais renseigné pour l'instant
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPost construit un post validé (sans ID, c'est le repository qui l'attribue).
func NewPost(title, content string, image *Image, now time.Time) (*Post, error) {
	title, content, err := ValidateContent(title, content)
	if err != nil {
		return nil, err
	}
	return &Post{
		Title:     title,
		Content:   content,
		Image:     image,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// HasImage indique si le post possède un asset dans le media store.
func (p *Post) HasImage() bool {
	return p.Image != nil
}

// ImageID retourne l'identifiant de l'asset, ou "" s'il n'y en a pas.
func (p *Post) ImageID() string {
	if p.Image == nil {
		return ""
	}
	return p.Image.ID
}

// Edit remplace titre et contenu. Une image nil laisse l'image actuelle en place.
func (p *Post) Edit(title, content string, image *Image, now time.Time) error {
	title, content, err := ValidateContent(title, content)
	if err != nil {
		return err
	}
	p.Title = title
	p.Content = content
	if image != nil {
		p.Image = image
	}
	p.UpdatedAt = now
	return nil
}

// ValidateContent trime puis vérifie les champs. Toutes les violations sont remontées d'un coup.
func ValidateContent(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	var fields []FieldError
	switch {
	case title == "":
		fields = append(fields, FieldError{Field: "title", Message: "Title is required"})
	case utf8.RuneCountInString(title) > MaxTitleLength:
		fields = append(fields, FieldError{Field: "title", Message: "Title cannot be more than 100 characters"})
	}
	switch {
	case content == "":
		fields = append(fields, FieldError{Field: "content", Message: "Content is required"})
	case utf8.RuneCountInString(content) > MaxContentLength:
		fields = append(fields, FieldError{Field: "content", Message: "Content cannot be more than 5000 characters"})
	}

	if len(fields) > 0 {
		return "", "", &ValidationError{Fields: fields}
	}
	return title, content, nil
}
