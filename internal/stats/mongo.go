package stats

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the collection holding legend totals.
const CollectionName = "tracker_totals"

// MongoStore persists legend totals in MongoDB.
type MongoStore struct {
	c *mongo.Collection
}

// NewMongoStore creates a store over db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{c: db.Collection(CollectionName)}
}

// EnsureIndexes creates the unique (player_uid, tracker_key, legend) index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "player_uid", Value: 1},
			{Key: "tracker_key", Value: 1},
			{Key: "legend", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_player_tracker_legend"),
	})
	if err != nil {
		return fmt.Errorf("create %s index: %w", CollectionName, err)
	}
	return nil
}

func (s *MongoStore) Save(ctx context.Context, rec LegendTotal) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{
		"player_uid":  rec.PlayerUID,
		"tracker_key": rec.TrackerKey,
		"legend":      rec.Legend,
	}, bson.M{
		"$set": bson.M{
			"total":      rec.Total,
			"missing":    rec.Missing,
			"updated_at": rec.UpdatedAt,
		},
	}, opts)
	return err
}

func (s *MongoStore) Legends(ctx context.Context, playerUID int64, trackerKey string) ([]LegendTotal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "legend", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{
		"player_uid":  playerUID,
		"tracker_key": trackerKey,
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []LegendTotal
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
