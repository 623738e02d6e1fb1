package snippets

import (
	"context"
	"fmt"
	"time"

	"github.com/safedep/dry/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/verte-zerg/codetype/internal/model"
)

// Defaults for the remote catalog.
const (
	DefaultMongoDatabase   = "codetype"
	DefaultMongoCollection = "snippets"
	mongoConnectTimeout    = 10 * time.Second
)

// MongoSource reads snippets from a MongoDB collection.
type MongoSource struct {
	client     *mongo.Client
	collection *mongo.Collection
	tabWidth   int
}

// MongoOptions configures OpenMongo.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	TabWidth   int
}

// OpenMongo connects to the remote catalog.
func OpenMongo(ctx context.Context, opts MongoOptions) (*MongoSource, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("mongo uri is empty")
	}
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to reach mongo: %w", err)
	}
	return &MongoSource{
		client:     client,
		collection: client.Database(opts.Database).Collection(opts.Collection),
		tabWidth:   opts.TabWidth,
	}, nil
}

// Close disconnects from the server.
func (m *MongoSource) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ListSnippets implements Source. Documents that fail validation are skipped.
func (m *MongoSource) ListSnippets(ctx context.Context, language, difficulty string) ([]model.Snippet, error) {
	cursor, err := m.collection.Find(ctx, mongoFilter(language, difficulty))
	if err != nil {
		return nil, fmt.Errorf("failed to query snippets: %w", err)
	}
	defer func() {
		if cerr := cursor.Close(ctx); cerr != nil {
			log.Warnf("failed to close cursor: %v", cerr)
		}
	}()

	var docs []model.Snippet
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode snippets: %w", err)
	}
	out := validDocuments(docs, m.tabWidth)
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: language=%q difficulty=%q", ErrNoSnippets, language, difficulty)
	}
	return out, nil
}

// validDocuments normalizes decoded documents like catalog files and drops
// the ones that fail validation.
func validDocuments(docs []model.Snippet, tabWidth int) []model.Snippet {
	out := make([]model.Snippet, 0, len(docs))
	for _, sn := range docs {
		sn = normalizeSnippet(sn, tabWidth)
		if err := Validate(sn); err != nil {
			log.Debugf("skipping snippet document %q: %v", sn.ID, err)
			continue
		}
		out = append(out, sn)
	}
	return out
}

func mongoFilter(language, difficulty string) bson.D {
	filter := bson.D{}
	if language != "" {
		filter = append(filter, bson.E{Key: "language", Value: language})
	}
	if difficulty != "" {
		filter = append(filter, bson.E{Key: "difficulty", Value: difficulty})
	}
	return filter
}
