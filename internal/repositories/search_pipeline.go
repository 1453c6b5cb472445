package repositories

import (
	"entrepotes-listings/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const addressField = "address"

// options for the page loader query: insertion order, capped.
func firstListingsOptions(limit int) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
}

// searchPipeline builds the aggregation for an address search. The term is
// passed to the store exactly as received.
func searchPipeline(mode, index, term string, limit int) mongo.Pipeline {
	if mode == config.SearchModeText {
		return mongo.Pipeline{
			{{Key: "$match", Value: bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: term}}}}}},
			{{Key: "$sort", Value: bson.D{{Key: "score", Value: bson.D{{Key: "$meta", Value: "textScore"}}}}}},
			{{Key: "$limit", Value: int64(limit)}},
		}
	}

	return mongo.Pipeline{
		{{Key: "$search", Value: bson.D{
			{Key: "index", Value: index},
			{Key: "text", Value: bson.D{
				{Key: "query", Value: term},
				{Key: "path", Value: addressField},
			}},
		}}},
		{{Key: "$limit", Value: int64(limit)}},
	}
}
