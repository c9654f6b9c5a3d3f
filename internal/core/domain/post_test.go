package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPost_TrimsFields(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	post, err := NewPost("  Hello  ", "\n body \t", nil, now)
	require.NoError(t, err)

	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, "body", post.Content)
	assert.Equal(t, now, post.CreatedAt)
	assert.Equal(t, now, post.UpdatedAt)
	assert.False(t, post.HasImage())
	assert.Empty(t, post.ImageID())
}

func TestNewPost_Validation(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		fields  []string
	}{
		{name: "empty title", title: "", content: "body", fields: []string{"title"}},
		{name: "whitespace title", title: "   ", content: "body", fields: []string{"title"}},
		{name: "title too long", title: strings.Repeat("a", MaxTitleLength+1), content: "body", fields: []string{"title"}},
		{name: "content too long", title: "ok", content: strings.Repeat("b", MaxContentLength+1), fields: []string{"content"}},
		{name: "both missing", title: "", content: " ", fields: []string{"title", "content"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPost(tt.title, tt.content, nil, time.Now())
			require.Error(t, err)
			assert.True(t, IsValidationError(err))

			var valErr *ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, tt.fields, valErr.FieldNames())
		})
	}
}

func TestNewPost_LimitsAreInclusive(t *testing.T) {
	_, err := NewPost(strings.Repeat("é", MaxTitleLength), strings.Repeat("x", MaxContentLength), nil, time.Now())
	assert.NoError(t, err)
}

func TestPostEdit_KeepsImageWhenNoneSupplied(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	post := &Post{ID: "p1", Title: "a", Content: "b", Image: &Image{URL: "https://cdn/x.png", ID: "x"}, CreatedAt: created, UpdatedAt: created}

	later := created.Add(time.Hour)
	require.NoError(t, post.Edit("new title", "new content", nil, later))

	assert.Equal(t, "new title", post.Title)
	assert.Equal(t, &Image{URL: "https://cdn/x.png", ID: "x"}, post.Image)
	assert.Equal(t, created, post.CreatedAt)
	assert.Equal(t, later, post.UpdatedAt)
}

func TestPostEdit_InvalidLeavesPostUntouched(t *testing.T) {
	post := &Post{ID: "p1", Title: "a", Content: "b"}

	err := post.Edit("", "b", &Image{URL: "u", ID: "i"}, time.Now())
	require.Error(t, err)
	assert.Equal(t, "a", post.Title)
	assert.Nil(t, post.Image)
}

func TestNotFoundError_IsSentinel(t *testing.T) {
	err := NewNotFoundError("42")
	assert.True(t, errors.Is(err, ErrPostNotFound))
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "42")
}

func TestMediaErrors_Unwrap(t *testing.T) {
	cause := errors.New("boom")

	up := &MediaUploadError{Err: cause}
	assert.True(t, errors.Is(up, cause))
	assert.True(t, IsMediaUploadError(up))

	del := &MediaDeleteError{ImageID: "abc123", Err: cause}
	assert.True(t, errors.Is(del, cause))
	assert.Contains(t, del.Error(), "abc123")
}
