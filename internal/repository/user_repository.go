package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pedrorichil/aprovaia/internal/models"
)

type UserRepository struct {
	Col        *mongo.Collection
	TenantsCol *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		Col:        db.Collection("users"),
		TenantsCol: db.Collection("tenants"),
	}
}

// FindOrCreateTenant returns the tenant with the given name, creating it on
// first use.
func (r *UserRepository) FindOrCreateTenant(ctx context.Context, name string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.TenantsCol.FindOne(ctx, bson.M{"name": name}).Decode(&tenant)
	if err == nil {
		return &tenant, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	tenant = models.Tenant{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.TenantsCol.InsertOne(ctx, tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	_, err := r.Col.InsertOne(ctx, user)
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.Col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByProfileID(ctx context.Context, profileID string) (*models.User, error) {
	var user models.User
	err := r.Col.FindOne(ctx, bson.M{"profile.id": profileID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdateGoal(ctx context.Context, userID, goal string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"profile.current_goal": goal}})
	return err
}

// FindStudentsByTenant returns all student users of a tenant.
func (r *UserRepository) FindStudentsByTenant(ctx context.Context, tenantID string) ([]models.User, error) {
	cur, err := r.Col.Find(ctx, bson.M{"tenant_id": tenantID, "role": models.RoleStudent})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, cur.Err()
}
