package dataset

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	perrors "github.com/matzehuels/parsets/pkg/errors"
)

// DefaultMongoTimeout bounds connection and query time for [LoadMongo].
const DefaultMongoTimeout = 30 * time.Second

// MongoSource identifies a MongoDB collection whose documents are records.
type MongoSource struct {
	URI        string
	Database   string
	Collection string

	// Filter selects documents; nil selects all.
	Filter bson.M

	// Fields restricts the loaded members; empty loads all top-level members.
	Fields []string

	// Limit caps the number of documents; 0 means no limit.
	Limit int64
}

// Validate checks that the source names a reachable-looking collection.
func (s MongoSource) Validate() error {
	if err := perrors.ValidateURI(s.URI, "mongodb", "mongodb+srv"); err != nil {
		return err
	}
	if s.Database == "" || s.Collection == "" {
		return perrors.New(perrors.ErrCodeInvalidInput, "mongo source needs both database and collection")
	}
	if s.Limit < 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "mongo limit must not be negative")
	}
	return nil
}

// LoadMongo reads every matching document of the collection into a dataset,
// in the collection's natural order. Document members are converted with
// [FromDocument].
func LoadMongo(ctx context.Context, src MongoSource) (Dataset, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultMongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(src.URI))
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeNetwork, err, "connect mongo")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	filter := src.Filter
	if filter == nil {
		filter = bson.M{}
	}
	findOpts := options.Find()
	if src.Limit > 0 {
		findOpts.SetLimit(src.Limit)
	}
	if len(src.Fields) > 0 {
		proj := bson.M{}
		for _, f := range src.Fields {
			proj[f] = 1
		}
		findOpts.SetProjection(proj)
	}

	cur, err := client.Database(src.Database).Collection(src.Collection).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeNetwork, err, "query %s.%s", src.Database, src.Collection)
	}
	defer cur.Close(ctx)

	out := Dataset{}
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidDataset, err, "decode document %d", len(out))
		}
		out = append(out, FromDocument(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeNetwork, err, "iterate %s.%s", src.Database, src.Collection)
	}
	return out, nil
}

// FromDocument converts a BSON document into a record.
//
// Strings stay strings and all numeric BSON types become numbers. Booleans,
// object IDs and dates become their string forms. The _id member, nulls,
// and nested documents or arrays are dropped since they are not categorical.
func FromDocument(doc bson.M) Datum {
	row := make(Datum, len(doc))
	for k, raw := range doc {
		if k == "_id" {
			continue
		}
		if v, ok := fromBSON(raw); ok {
			row[k] = v
		}
	}
	return row
}

func fromBSON(raw any) (Value, bool) {
	switch x := raw.(type) {
	case string:
		return String(x), true
	case int32:
		return Number(float64(x)), true
	case int64:
		return Number(float64(x)), true
	case int:
		return Number(float64(x)), true
	case float64:
		return Number(x), true
	case bool:
		if x {
			return String("true"), true
		}
		return String("false"), true
	case primitive.ObjectID:
		return String(x.Hex()), true
	case primitive.DateTime:
		return String(x.Time().UTC().Format(time.RFC3339)), true
	case primitive.Decimal128:
		return ParseValue(x.String(), true), true
	case primitive.Symbol:
		return String(string(x)), true
	default:
		return Value{}, false
	}
}
