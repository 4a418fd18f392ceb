package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fuelmate-api/models"
	"fuelmate-api/store"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection   = "users"
	ordersCollection  = "orders"
	historyCollection = "order_status_history"
)

// Store serves users and orders from a MongoDB database
type Store struct {
	client *mongo.Client
	users  *UserRepository
	orders *OrderRepository
}

// Connect dials uri, verifies the connection and makes sure the indexes exist
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	db := client.Database(dbName)
	s := &Store{
		client: client,
		users:  &UserRepository{collection: db.Collection(usersCollection)},
		orders: &OrderRepository{
			collection: db.Collection(ordersCollection),
			history:    db.Collection(historyCollection),
		},
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}
	_, err = s.orders.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "driver_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("orders indexes: %w", err)
	}
	_, err = s.orders.history.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}

func (s *Store) Users() store.UserRepository   { return s.users }
func (s *Store) Orders() store.OrderRepository { return s.orders }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrDuplicate
	}
	return err
}

// ── Users ───────────────────────────────────────────────────────────────────

type UserRepository struct {
	collection *mongo.Collection
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, user)
	return translate(err)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, filter store.UserFilter) ([]models.User, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	cur, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	set := bson.M{
		"name":            user.Name,
		"phone":           user.Phone,
		"status":          user.Status,
		"status_note":     user.StatusNote,
		"license_number":  user.LicenseNumber,
		"vehicle_number":  user.VehicleNumber,
		"vehicle_type":    user.VehicleType,
		"address":         user.Address,
		"city":            user.City,
		"state":           user.State,
		"profile_picture": user.ProfilePicture,
		"updated_at":      time.Now(),
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": set})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ── Orders ──────────────────────────────────────────────────────────────────

type OrderRepository struct {
	collection *mongo.Collection
	history    *mongo.Collection
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Version == 0 {
		order.Version = 1
	}
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, order)
	return translate(err)
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *OrderRepository) List(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.DriverID != "" {
		query["driver_id"] = filter.DriverID
	}
	if len(filter.Statuses) > 0 {
		query["status"] = bson.M{"$in": filter.Statuses}
	}

	cur, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) CompareAndSwap(ctx context.Context, id string, version int64, patch store.OrderPatch) (*models.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order models.Order
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "version": version},
		bson.M{"$set": patch.Fields(version+1, time.Now())},
		opts,
	).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		n, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return nil, countErr
		}
		if n == 0 {
			return nil, store.ErrNotFound
		}
		return nil, store.ErrVersionConflict
	}
	if err != nil {
		return nil, fmt.Errorf("update order %s: %w", id, err)
	}
	return &order, nil
}

func (r *OrderRepository) AppendHistory(ctx context.Context, entry *models.OrderStatusHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.history.InsertOne(ctx, entry)
	return translate(err)
}

func (r *OrderRepository) History(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	cur, err := r.history.Find(ctx, bson.M{"order_id": orderID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	entries := []models.OrderStatusHistory{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
