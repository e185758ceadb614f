package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pedrorichil/aprovaia/internal/models"
)

type AnswerRepository struct {
	Col *mongo.Collection
}

func NewAnswerRepository(db *mongo.Database) *AnswerRepository {
	return &AnswerRepository{Col: db.Collection("student_answers")}
}

func (r *AnswerRepository) Create(ctx context.Context, answer *models.StudentAnswer) error {
	_, err := r.Col.InsertOne(ctx, answer)
	return err
}

func (r *AnswerRepository) FindByID(ctx context.Context, id string) (*models.StudentAnswer, error) {
	var answer models.StudentAnswer
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&answer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &answer, nil
}

// Delete removes a stored answer. Used to roll back a submission whose
// analysis job could not be enqueued.
func (r *AnswerRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// AttachAnalysis stores the AI analysis for an answer. The payload is
// write-once: an answer that already carries an analysis is left untouched.
func (r *AnswerRepository) AttachAnalysis(ctx context.Context, answerID string, analysis *models.ErrorAnalysis) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": answerID, "ai_analysis": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"ai_analysis": analysis}},
	)
	return err
}

// AnsweredQuestionIDs returns the ids of every question the profile has
// already answered.
func (r *AnswerRepository) AnsweredQuestionIDs(ctx context.Context, profileID string) ([]string, error) {
	values, err := r.Col.Distinct(ctx, "question_id", bson.M{"profile_id": profileID})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// FindRecentErrors returns the profile's most recent wrong answers.
func (r *AnswerRepository) FindRecentErrors(ctx context.Context, profileID string, limit int64) ([]models.StudentAnswer, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "answered_at", Value: -1}}).
		SetLimit(limit)
	cur, err := r.Col.Find(ctx, bson.M{"profile_id": profileID, "is_correct": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var answers []models.StudentAnswer
	for cur.Next(ctx) {
		var a models.StudentAnswer
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, cur.Err()
}

// AverageCorrectness returns the share of correct answers across the given
// profiles, 0 when they have no answers.
func (r *AnswerRepository) AverageCorrectness(ctx context.Context, profileIDs []string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"profile_id": bson.M{"$in": profileIDs}}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"avg": bson.M{"$avg": bson.M{"$cond": bson.A{"$is_correct", 1.0, 0.0}}},
		}}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var result struct {
		Avg float64 `bson:"avg"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&result); err != nil {
			return 0, err
		}
	}
	return result.Avg, cur.Err()
}
