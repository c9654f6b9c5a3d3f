package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jupiterclapton/blog-service/internal/core/domain"
	"github.com/jupiterclapton/blog-service/internal/core/ports"
)

// DTO interne : le domaine ne connaît ni bson ni ObjectID.
// imageUrl/imageId sont écrits à null quand il n'y a pas d'image (même forme que les anciens documents).
type postDocument struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Title     string              `bson:"title"`
	Content   string              `bson:"content"`
	ImageURL  *string             `bson:"imageUrl"`
	ImageID   *string             `bson:"imageId"`
	Author    *primitive.ObjectID `bson:"author,omitempty"`
	CreatedAt time.Time           `bson:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt"`
}

type MongoRepo struct {
	coll *mongo.Collection
}

func NewMongoRepo(db *mongo.Database, collection string) *MongoRepo {
	return &MongoRepo{coll: db.Collection(collection)}
}

var _ ports.PostRepository = (*MongoRepo)(nil)

// EnsureIndexes déclare l'index texte title+content (pas encore exposé) et l'index de tri.
// Idempotent : CreateMany ne fait rien si les index existent déjà avec la même définition.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: "text"}, {Key: "content", Value: "text"}},
			Options: options.Index().SetName("title_text_content_text"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_-1"),
		},
	})
	if err != nil {
		return fmt.Errorf("mongo: ensure indexes: %w", err)
	}
	return nil
}

func (r *MongoRepo) Insert(ctx context.Context, post *domain.Post) error {
	doc, err := toDocument(post)
	if err != nil {
		return err
	}
	doc.ID = primitive.NilObjectID

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("mongo: insert: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("mongo: unexpected inserted id type %T", res.InsertedID)
	}
	post.ID = oid.Hex()
	return nil
}

func (r *MongoRepo) FindByID(ctx context.Context, postID string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		// Un identifiant mal formé ne peut désigner aucun post
		return nil, domain.NewNotFoundError(postID)
	}

	var doc postDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, r.handleError(postID, err)
	}
	return toDomain(&doc), nil
}

func (r *MongoRepo) Update(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(post.ID)
	if err != nil {
		return nil, domain.NewNotFoundError(post.ID)
	}
	imageURL, imageID := imageFields(post.Image)

	update := bson.M{"$set": bson.M{
		"title":     post.Title,
		"content":   post.Content,
		"imageUrl":  imageURL,
		"imageId":   imageID,
		"updatedAt": post.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc postDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return nil, r.handleError(post.ID, err)
	}
	return toDomain(&doc), nil
}

func (r *MongoRepo) Delete(ctx context.Context, postID string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, domain.NewNotFoundError(postID)
	}

	var doc postDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, r.handleError(postID, err)
	}
	return toDomain(&doc), nil
}

func (r *MongoRepo) List(ctx context.Context) ([]*domain.Post, error) {
	// _id départage les created_at identiques (l'ObjectID est croissant)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: list: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode list: %w", err)
	}

	posts := make([]*domain.Post, len(docs))
	for i := range docs {
		posts[i] = toDomain(&docs[i])
	}
	return posts, nil
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

// --- HELPERS ---

func (r *MongoRepo) handleError(postID string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.NewNotFoundError(postID)
	}
	return fmt.Errorf("mongo: %w", err)
}

func toDocument(p *domain.Post) (*postDocument, error) {
	doc := &postDocument{
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	doc.ImageURL, doc.ImageID = imageFields(p.Image)

	if p.ID != "" {
		oid, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return nil, fmt.Errorf("mongo: invalid post id %q: %w", p.ID, err)
		}
		doc.ID = oid
	}
	if p.AuthorID != "" {
		author, err := primitive.ObjectIDFromHex(p.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("mongo: invalid author id %q: %w", p.AuthorID, err)
		}
		doc.Author = &author
	}
	return doc, nil
}

func toDomain(doc *postDocument) *domain.Post {
	p := &domain.Post{
		ID:        doc.ID.Hex(),
		Title:     doc.Title,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt.UTC(),
		UpdatedAt: doc.UpdatedAt.UTC(),
	}
	// Un document à moitié renseigné est traité comme sans image
	if doc.ImageURL != nil && doc.ImageID != nil && *doc.ImageURL != "" && *doc.ImageID != "" {
		p.Image = &domain.Image{URL: *doc.ImageURL, ID: *doc.ImageID}
	}
	if doc.Author != nil {
		p.AuthorID = doc.Author.Hex()
	}
	return p
}

func imageFields(img *domain.Image) (url, id *string) {
	if img == nil {
		return nil, nil
	}
	u, i := img.URL, img.ID
	return &u, &i
}
