package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"dbtools/internal/model"
	"dbtools/internal/repository"
)

// collection is the subset of *mongo.Collection the repository uses.
type collection interface {
	InsertOne(ctx context.Context, document any) (*mongo.InsertOneResult, error)
	FindOne(ctx context.Context, filter any) *mongo.SingleResult
	Find(ctx context.Context, filter any) (*mongo.Cursor, error)
	UpdateOne(ctx context.Context, filter, update any) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter any) (*mongo.DeleteResult, error)
}

// driverCollection adapts *mongo.Collection to collection.
type driverCollection struct {
	c *mongo.Collection
}

func (d driverCollection) InsertOne(ctx context.Context, document any) (*mongo.InsertOneResult, error) {
	return d.c.InsertOne(ctx, document)
}

func (d driverCollection) FindOne(ctx context.Context, filter any) *mongo.SingleResult {
	return d.c.FindOne(ctx, filter)
}

func (d driverCollection) Find(ctx context.Context, filter any) (*mongo.Cursor, error) {
	return d.c.Find(ctx, filter)
}

func (d driverCollection) UpdateOne(ctx context.Context, filter, update any) (*mongo.UpdateResult, error) {
	return d.c.UpdateOne(ctx, filter, update)
}

func (d driverCollection) DeleteOne(ctx context.Context, filter any) (*mongo.DeleteResult, error) {
	return d.c.DeleteOne(ctx, filter)
}

func (d driverCollection) DeleteMany(ctx context.Context, filter any) (*mongo.DeleteResult, error) {
	return d.c.DeleteMany(ctx, filter)
}

// catDocument is the stored shape of a cat.
type catDocument struct {
	ID       bson.ObjectID `bson:"_id,omitempty"`
	Name     string        `bson:"name"`
	Age      int           `bson:"age"`
	Features []string      `bson:"features"`
}

func (d catDocument) toModel() model.Cat {
	features := d.Features
	if features == nil {
		features = []string{}
	}
	id := ""
	if !d.ID.IsZero() {
		id = d.ID.Hex()
	}
	return model.Cat{ID: id, Name: d.Name, Age: d.Age, Features: features}
}

// CatMongo is a MongoDB implementation of repository.CatRepository.
// The collection must carry a unique index on name; database.NewMongo creates it.
type CatMongo struct {
	col collection
}

// NewCatMongo creates a new CatMongo repository.
func NewCatMongo(col *mongo.Collection) *CatMongo {
	return &CatMongo{col: driverCollection{c: col}}
}

var _ repository.CatRepository = (*CatMongo)(nil)

func byName(name string) bson.D {
	return bson.D{{Key: "name", Value: name}}
}

// Create inserts a cat. Features are stored without duplicates.
func (r *CatMongo) Create(ctx context.Context, cat *model.Cat) (string, error) {
	doc := catDocument{
		Name:     cat.Name,
		Age:      cat.Age,
		Features: model.UniqueFeatures(cat.Features),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%w: %s", repository.ErrConflict, cat.Name)
		}
		return "", err
	}

	switch id := res.InsertedID.(type) {
	case bson.ObjectID:
		return id.Hex(), nil
	default:
		return fmt.Sprint(id), nil
	}
}

// FindByName fetches a single cat by its unique name.
func (r *CatMongo) FindByName(ctx context.Context, name string) (*model.Cat, error) {
	var doc catDocument
	if err := r.col.FindOne(ctx, byName(name)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	cat := doc.toModel()
	return &cat, nil
}

// List returns every cat in natural order.
func (r *CatMongo) List(ctx context.Context) ([]model.Cat, error) {
	cur, err := r.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var docs []catDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	cats := make([]model.Cat, 0, len(docs))
	for _, d := range docs {
		cats = append(cats, d.toModel())
	}
	return cats, nil
}

// UpdateAge sets age on the named cat. It never inserts.
func (r *CatMongo) UpdateAge(ctx context.Context, name string, age int) (bool, error) {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "age", Value: age}}}}
	res, err := r.col.UpdateOne(ctx, byName(name), update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// AddFeature appends feature with $addToSet so it is stored at most once.
func (r *CatMongo) AddFeature(ctx context.Context, name, feature string) (bool, bool, error) {
	update := bson.D{{Key: "$addToSet", Value: bson.D{{Key: "features", Value: feature}}}}
	res, err := r.col.UpdateOne(ctx, byName(name), update)
	if err != nil {
		return false, false, err
	}
	return res.MatchedCount > 0, res.ModifiedCount > 0, nil
}

// Delete removes the named cat.
func (r *CatMongo) Delete(ctx context.Context, name string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, byName(name))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// DeleteAll removes every cat.
func (r *CatMongo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
