package feed

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/recycleview/pkg/errors"
)

// Mongo reads cards from a MongoDB collection, ordered by _id.
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
	location   string
}

type mongoCard struct {
	ID    any      `bson:"_id"`
	Title string   `bson:"title"`
	Body  string   `bson:"body"`
	Tags  []string `bson:"tags"`
}

// OpenMongo connects to uri and returns a loader for database.collection.
func OpenMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	if uri == "" {
		return nil, errors.New(errors.ErrCodeInvalidFeed, "mongo feed requires a uri")
	}
	if err := validateMongoName("mongo database", database); err != nil {
		return nil, err
	}
	if err := validateMongoName("mongo collection", collection); err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFeed, err, "connect to mongo")
	}
	return &Mongo{
		client:     client,
		collection: client.Database(database).Collection(collection),
		location:   database + "." + collection,
	}, nil
}

func (m *Mongo) Kind() string     { return KindMongo }
func (m *Mongo) Location() string { return m.location }

// Close disconnects the client.
func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}

// Load fetches every document in the collection.
func (m *Mongo) Load(ctx context.Context) ([]Card, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := m.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "find in %s", m.location)
	}

	var docs []mongoCard
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", m.location)
	}

	cards := make([]Card, len(docs))
	for i, d := range docs {
		cards[i] = Card{ID: mongoID(d.ID), Title: d.Title, Body: d.Body, Tags: d.Tags}
	}
	return normalize(cards), nil
}

func mongoID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

func validateMongoName(kind, name string) error {
	if err := errors.ValidateName(kind, name); err != nil {
		return err
	}
	if strings.ContainsAny(name, "$\x00") {
		return errors.New(errors.ErrCodeInvalidFeed, "%s %q must not contain '$'", kind, name)
	}
	return nil
}
