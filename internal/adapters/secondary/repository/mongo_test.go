package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jupiterclapton/blog-service/internal/core/domain"
)

func TestToDocument_RoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC)
	post := &domain.Post{
		ID:        primitive.NewObjectID().Hex(),
		Title:     "title",
		Content:   "content",
		Image:     &domain.Image{URL: "https://cdn/posts_app/x.png", ID: "posts_app/x.png"},
		AuthorID:  primitive.NewObjectID().Hex(),
		CreatedAt: ts,
		UpdatedAt: ts.Add(time.Minute),
	}

	doc, err := toDocument(post)
	require.NoError(t, err)
	assert.Equal(t, post, toDomain(doc))
}

func TestToDocument_NoImageWritesNulls(t *testing.T) {
	doc, err := toDocument(&domain.Post{Title: "t", Content: "c"})
	require.NoError(t, err)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))

	assert.Contains(t, m, "imageUrl")
	assert.Nil(t, m["imageUrl"])
	assert.Contains(t, m, "imageId")
	assert.Nil(t, m["imageId"])
	assert.NotContains(t, m, "_id")
	assert.NotContains(t, m, "author")
}

func TestToDocument_InvalidIDs(t *testing.T) {
	_, err := toDocument(&domain.Post{ID: "not-hex"})
	assert.Error(t, err)

	_, err = toDocument(&domain.Post{AuthorID: "not-hex"})
	assert.Error(t, err)
}

func TestToDomain_HalfImageIsDropped(t *testing.T) {
	url := "https://cdn/x.png"
	doc := &postDocument{ID: primitive.NewObjectID(), Title: "t", Content: "c", ImageURL: &url}

	post := toDomain(doc)
	assert.Nil(t, post.Image)
	assert.False(t, post.HasImage())
}
