package database

import (
	"context"
	"fmt"
	"time"

	"entrepotes-listings/pkg/logger"
	"entrepotes-listings/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AddressTextIndexName is the single-field text index used by the "text"
// search mode. A collection allows one text index, so it covers address only.
const AddressTextIndexName = "address_text"

// ListingIndexModels returns the indexes the listing collection needs.
func ListingIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "address", Value: "text"}},
			Options: options.Index().SetName(AddressTextIndexName),
		},
	}
}

// create the listing indexes; failures are logged and returned, never fatal to the caller.
func EnsureListingIndexes(ctx context.Context, coll *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	start := time.Now()
	_, err := coll.Indexes().CreateMany(ctx, ListingIndexModels())
	metrics.ObserveMongo("create_indexes", coll.Name(), start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to create indexes: %v", err)
		return err
	}

	logger.GlobalLogger.Println("MongoDB indexes created successfully.")
	return nil
}

type indexSpec struct {
	Name    string `bson:"name"`
	Key     bson.D `bson:"key"`
	Weights bson.M `bson:"weights"`
}

func (s indexSpec) isText() bool {
	for _, e := range s.Key {
		if e.Key == "_fts" && e.Value == "text" {
			return true
		}
	}
	return false
}

// CheckAddressTextIndex fails unless the collection's only text index is
// address_text over the address field. $text picks whatever text index exists,
// so a different one would silently change what the "text" mode matches.
func CheckAddressTextIndex(ctx context.Context, coll *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	start := time.Now()
	cursor, err := coll.Indexes().List(ctx)
	metrics.ObserveMongo("list_indexes", coll.Name(), start, err)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}

	var specs []indexSpec
	if err := cursor.All(ctx, &specs); err != nil {
		return fmt.Errorf("failed to decode indexes: %w", err)
	}

	var text []indexSpec
	for _, spec := range specs {
		if spec.isText() {
			text = append(text, spec)
		}
	}

	switch {
	case len(text) == 0:
		return fmt.Errorf("collection %s has no text index; create %s or set ensure_indexes", coll.Name(), AddressTextIndexName)
	case text[0].Name != AddressTextIndexName:
		return fmt.Errorf("collection %s text index is %q, want %q", coll.Name(), text[0].Name, AddressTextIndexName)
	}
	for field := range text[0].Weights {
		if field != "address" {
			return fmt.Errorf("text index %s also covers %q; it must cover address only", AddressTextIndexName, field)
		}
	}
	return nil
}
