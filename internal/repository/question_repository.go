package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pedrorichil/aprovaia/internal/models"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	_, err := r.Col.InsertOne(ctx, question)
	return err
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &question, nil
}

// ListTopics returns the distinct topics present in the question bank.
func (r *QuestionRepository) ListTopics(ctx context.Context) ([]string, error) {
	values, err := r.Col.Distinct(ctx, "topic", bson.M{})
	if err != nil {
		return nil, err
	}
	topics := make([]string, 0, len(values))
	for _, v := range values {
		if topic, ok := v.(string); ok {
			topics = append(topics, topic)
		}
	}
	return topics, nil
}

// FindFirstExcluding returns one question outside the excluded set, filtered
// by topic when topic is non-empty. Returns nil when none matches.
func (r *QuestionRepository) FindFirstExcluding(ctx context.Context, topic string, excludeIDs []string) (*models.Question, error) {
	filter := bson.M{}
	if topic != "" {
		filter["topic"] = topic
	}
	if len(excludeIDs) > 0 {
		filter["_id"] = bson.M{"$nin": excludeIDs}
	}

	var question models.Question
	err := r.Col.FindOne(ctx, filter).Decode(&question)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) UpdateAnswerKey(ctx context.Context, id, correctOption string) (*models.Question, error) {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"correct_option": correctOption}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

func (r *QuestionRepository) UpdateVectorID(ctx context.Context, id, vectorID string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"vector_id": vectorID}})
	return err
}
