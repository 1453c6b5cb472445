package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	apperrors "entrepotes-listings/internal/errors"
	"entrepotes-listings/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type staticCollection struct {
	coll *mongo.Collection
}

func (s staticCollection) Collection(context.Context) (*mongo.Collection, error) {
	return s.coll, nil
}

type unreachableStore struct{}

func (unreachableStore) Collection(context.Context) (*mongo.Collection, error) {
	return nil, apperrors.NewConnectionError("failed to connect to MongoDB", errors.New("connection refused"))
}

func objectID(n byte) primitive.ObjectID {
	var id primitive.ObjectID
	id[11] = n
	return id
}

func listingDoc(n byte) bson.D {
	return bson.D{
		{Key: "_id", Value: objectID(n)},
		{Key: "title", Value: fmt.Sprintf("Loft %d", n)},
		{Key: "address", Value: fmt.Sprintf("%d Main St", n)},
		{Key: "price", Value: int32(500 + int32(n))},
		{Key: "images", Value: bson.D{{Key: "pictures_url", Value: fmt.Sprintf("%d.jpg", n)}}},
		{Key: "host", Value: "Marie"},
	}
}

func namespace(mt *mtest.T) string {
	return mt.DB.Name() + "." + mt.Coll.Name()
}

func TestListingRepository_FindFirst(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes listings in store order", func(mt *mtest.T) {
		repo := NewListingRepository(staticCollection{mt.Coll}, SearchOptions{Mode: config.SearchModeAtlas, Index: "default"})
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			listingDoc(1), listingDoc(2), listingDoc(3)))

		listings, err := repo.FindFirst(context.Background(), 10)
		if err != nil {
			mt.Fatalf("FindFirst: %v", err)
		}
		if len(listings) != 3 {
			mt.Fatalf("expected 3 listings, got %d", len(listings))
		}
		for i, l := range listings {
			want := objectID(byte(i + 1))
			if l.ID != want {
				mt.Errorf("listing %d id = %s, want %s", i, l.ID.Hex(), want.Hex())
			}
		}
		first := listings[0]
		if first.Title != "Loft 1" || first.Address != "1 Main St" || first.Images.PicturesURL != "1.jpg" {
			mt.Errorf("unexpected listing %+v", first)
		}
		if first.Price.String() != "501" || !first.Price.IsNumeric() {
			mt.Errorf("price = %q (numeric=%v), want numeric 501", first.Price.String(), first.Price.IsNumeric())
		}
	})

	mt.Run("sorts by ascending id and caps the batch", func(mt *mtest.T) {
		repo := NewListingRepository(staticCollection{mt.Coll}, SearchOptions{})
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		listings, err := repo.FindFirst(context.Background(), 10)
		if err != nil {
			mt.Fatalf("FindFirst: %v", err)
		}
		if listings == nil || len(listings) != 0 {
			mt.Errorf("expected empty non-nil slice, got %#v", listings)
		}

		evt := mt.GetStartedEvent()
		if evt == nil || evt.CommandName != "find" {
			mt.Fatalf("expected a find command, got %+v", evt)
		}
		if dir, ok := evt.Command.Lookup("sort", "_id").AsInt64OK(); !ok || dir != 1 {
			mt.Errorf("sort._id = %v, want 1", evt.Command.Lookup("sort"))
		}
		if limit, ok := evt.Command.Lookup("limit").AsInt64OK(); !ok || limit != 10 {
			mt.Errorf("limit = %v, want 10", evt.Command.Lookup("limit"))
		}
		if filter := evt.Command.Lookup("filter").Document(); len(mustElements(mt, filter)) != 0 {
			mt.Errorf("expected an empty filter, got %s", filter)
		}
	})

	mt.Run("wraps driver failures as query errors", func(mt *mtest.T) {
		repo := NewListingRepository(staticCollection{mt.Coll}, SearchOptions{})
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad sort specification",
			Name:    "BadValue",
		}))

		_, err := repo.FindFirst(context.Background(), 10)
		if !apperrors.IsQueryError(err) {
			mt.Fatalf("expected QueryError, got %v", err)
		}
	})
}

func TestListingRepository_SearchAddress(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns raw documents", func(mt *mtest.T) {
		repo := NewListingRepository(staticCollection{mt.Coll}, SearchOptions{Mode: config.SearchModeAtlas, Index: "default"})
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, listingDoc(7)))

		docs, err := repo.SearchAddress(context.Background(), "Main", 20)
		if err != nil {
			mt.Fatalf("SearchAddress: %v", err)
		}
		if len(docs) != 1 {
			mt.Fatalf("expected 1 document, got %d", len(docs))
		}
		if docs[0]["host"] != "Marie" {
			mt.Errorf("expected unprojected fields to survive, got %v", docs[0])
		}
		images, ok := docs[0]["images"].(bson.M)
		if !ok || images["pictures_url"] != "7.jpg" {
			mt.Errorf("images = %#v", docs[0]["images"])
		}
	})

	mt.Run("sends an address-scoped search with the cap", func(mt *mtest.T) {
		repo := NewListingRepository(staticCollection{mt.Coll}, SearchOptions{Mode: config.SearchModeAtlas, Index: "listings"})
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		docs, err := repo.SearchAddress(context.Background(), "rue Saint-Denis", 20)
		if err != nil {
			mt.Fatalf("SearchAddress: %v", err)
		}
		if docs == nil {
			mt.Error("expected empty non-nil slice")
		}

		evt := mt.GetStartedEvent()
		if evt == nil || evt.CommandName != "aggregate" {
			mt.Fatalf("expected an aggregate command, got %+v", evt)
		}
		cmd := evt.Command
		if got := cmd.Lookup("pipeline", "0", "$search", "text", "path").StringValue(); got != "address" {
			mt.Errorf("search path = %q, want address", got)
		}
		if got := cmd.Lookup("pipeline", "0", "$search", "text", "query").StringValue(); got != "rue Saint-Denis" {
			mt.Errorf("search query = %q", got)
		}
		if got := cmd.Lookup("pipeline", "0", "$search", "index").StringValue(); got != "listings" {
			mt.Errorf("search index = %q", got)
		}
		if limit, ok := cmd.Lookup("pipeline", "1", "$limit").AsInt64OK(); !ok || limit != 20 {
			mt.Errorf("$limit = %v, want 20", cmd.Lookup("pipeline", "1"))
		}
	})

	mt.Run("unsupported search stage is a query error", func(mt *mtest.T) {
		repo := NewListingRepository(staticCollection{mt.Coll}, SearchOptions{Mode: config.SearchModeAtlas, Index: "default"})
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    40324,
			Message: "Unrecognized pipeline stage name: '$search'",
			Name:    "Location40324",
		}))

		_, err := repo.SearchAddress(context.Background(), "Main", 20)
		if !apperrors.IsQueryError(err) {
			mt.Fatalf("expected QueryError, got %v", err)
		}
	})
}

func TestListingRepository_ConnectionErrorPropagates(t *testing.T) {
	repo := NewListingRepository(unreachableStore{}, SearchOptions{})

	if _, err := repo.FindFirst(context.Background(), 10); !apperrors.IsConnectionError(err) {
		t.Errorf("FindFirst: expected ConnectionError, got %v", err)
	}
	if _, err := repo.SearchAddress(context.Background(), "Main", 20); !apperrors.IsConnectionError(err) {
		t.Errorf("SearchAddress: expected ConnectionError, got %v", err)
	}
}

func mustElements(mt *mtest.T, doc bson.Raw) []bson.RawElement {
	elems, err := doc.Elements()
	if err != nil {
		mt.Fatalf("Elements: %v", err)
	}
	return elems
}
