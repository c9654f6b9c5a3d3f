package domain

import (
	"errors"
	"fmt"
	"strings"
)

// --- ERREURS DU DOMAINE ---

var (
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidImage = errors.New("invalid image")
)

// NotFoundError porte l'identifiant demandé. errors.Is(err, ErrPostNotFound) reste vrai.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("post %q not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrPostNotFound }

func NewNotFoundError(id string) error {
	return &NotFoundError{ID: id}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound)
}

// FieldError décrit une violation sur un champ précis.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError regroupe toutes les violations d'une requête.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, ", ")
}

// FieldNames liste les champs en faute, dans l'ordre.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return names
}

func NewValidationError(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// MediaUploadError : l'envoi au media store a échoué, l'opération entière est annulée.
type MediaUploadError struct {
	Err error
}

func (e *MediaUploadError) Error() string {
	return fmt.Sprintf("image upload failed: %v", e.Err)
}

func (e *MediaUploadError) Unwrap() error { return e.Err }

func IsMediaUploadError(err error) bool {
	var upErr *MediaUploadError
	return errors.As(err, &upErr)
}

// MediaDeleteError : le nettoyage d'un asset a échoué.
// Jamais renvoyée à l'appelant, seulement journalisée (asset orphelin).
type MediaDeleteError struct {
	ImageID string
	Err     error
}

func (e *MediaDeleteError) Error() string {
	return fmt.Sprintf("could not delete image %q: %v", e.ImageID, e.Err)
}

func (e *MediaDeleteError) Unwrap() error { return e.Err }
