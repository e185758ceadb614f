package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pedrorichil/aprovaia/internal/models"
)

// ProficiencyRepository persists the per-(profile, topic) proficiency
// records. It implements the adaptive package's ProficiencyStore contract.
type ProficiencyRepository struct {
	Col *mongo.Collection
}

func NewProficiencyRepository(db *mongo.Database) *ProficiencyRepository {
	return &ProficiencyRepository{Col: db.Collection("proficiency")}
}

// EnsureIndexes creates the unique (profile_id, topic) index that backs the
// one-record-per-pair invariant.
func (r *ProficiencyRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "profile_id", Value: 1}, {Key: "topic", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *ProficiencyRepository) Get(ctx context.Context, profileID, topic string) (float64, bool, error) {
	var record models.ProficiencyRecord
	err := r.Col.FindOne(ctx, bson.M{"profile_id": profileID, "topic": topic}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, false, nil
		}
		return 0, false, err
	}
	return record.Score, true, nil
}

func (r *ProficiencyRepository) Upsert(ctx context.Context, profileID, topic string, score float64) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"profile_id": profileID, "topic": topic},
		bson.M{
			"$set":         bson.M{"proficiency_score": score, "last_updated": time.Now().UTC()},
			"$setOnInsert": bson.M{"_id": uuid.NewString()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *ProficiencyRepository) SeedIfAbsent(ctx context.Context, profileID, topic string, score float64) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"profile_id": profileID, "topic": topic},
		bson.M{"$setOnInsert": bson.M{
			"_id":               uuid.NewString(),
			"proficiency_score": score,
			"last_updated":      time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *ProficiencyRepository) ScoresByProfile(ctx context.Context, profileID string) (map[string]float64, error) {
	records, err := r.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	scores := make(map[string]float64, len(records))
	for _, rec := range records {
		scores[rec.Topic] = rec.Score
	}
	return scores, nil
}

func (r *ProficiencyRepository) ListByProfile(ctx context.Context, profileID string) ([]models.ProficiencyRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "proficiency_score", Value: -1}})
	cur, err := r.Col.Find(ctx, bson.M{"profile_id": profileID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []models.ProficiencyRecord
	for cur.Next(ctx) {
		var rec models.ProficiencyRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, cur.Err()
}

// HardestTopics returns the topics with the lowest average score across the
// given profiles, ascending.
func (r *ProficiencyRepository) HardestTopics(ctx context.Context, profileIDs []string, limit int) ([]models.TopicAverage, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"profile_id": bson.M{"$in": profileIDs}}}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$topic",
			"average": bson.M{"$avg": "$proficiency_score"},
		}}},
		{{Key: "$sort", Value: bson.M{"average": 1}}},
		{{Key: "$limit", Value: limit}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var topics []models.TopicAverage
	for cur.Next(ctx) {
		var row struct {
			Topic   string  `bson:"_id"`
			Average float64 `bson:"average"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		topics = append(topics, models.TopicAverage{Topic: row.Topic, Average: row.Average})
	}
	return topics, cur.Err()
}
