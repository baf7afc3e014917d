package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoTimeout = 5 * time.Second

type mongoEntry struct {
	SessionID string    `bson:"session_id"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoProvider keeps session entries in one collection, one document per
// (session_id, key).
type MongoProvider struct {
	Collection *mongo.Collection
}

// NewMongoProvider ensures the unique (session_id, key) index exists.
func NewMongoProvider(ctx context.Context, coll *mongo.Collection) (*MongoProvider, error) {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create session index: %w", err)
	}
	return &MongoProvider{Collection: coll}, nil
}

func (p *MongoProvider) Scope(sessionID string) Store {
	return &MongoStore{coll: p.Collection, sessionID: sessionID}
}

// Purge removes every entry of sessions idle since before cutoff. A session
// with one fresh key keeps all of its keys.
func (p *MongoProvider) Purge(cutoff time.Time, keep []string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	fresh, err := p.Collection.Distinct(ctx, "session_id", bson.M{"updated_at": bson.M{"$gte": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	for _, id := range keep {
		fresh = append(fresh, id)
	}

	filter := bson.M{}
	if len(fresh) > 0 {
		filter["session_id"] = bson.M{"$nin": fresh}
	}
	res, err := p.Collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return res.DeletedCount, nil
}

type MongoStore struct {
	coll      *mongo.Collection
	sessionID string
}

func (s *MongoStore) filter(key string) bson.M {
	return bson.M{"session_id": s.sessionID, "key": key}
}

func (s *MongoStore) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	var entry mongoEntry
	err := s.coll.FindOne(ctx, s.filter(key)).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return entry.Value, true, nil
}

func (s *MongoStore) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	_, err := s.coll.UpdateOne(ctx, s.filter(key),
		bson.M{"$set": bson.M{"value": value, "updated_at": time.Now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	if _, err := s.coll.DeleteOne(ctx, s.filter(key)); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
