package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reviewlens/internal/types"
)

const usersCollection = "users"

// MongoStorage persists accounts and history in MongoDB.
type MongoStorage struct {
	client  *mongo.Client
	history *mongo.Collection
	users   *mongo.Collection
	logger  *slog.Logger
}

// NewMongoStorage connects to MongoDB and pings it.
func NewMongoStorage(uri, database, collection string, logger *slog.Logger) (*MongoStorage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("connect: %w", err)}
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("ping: %w", err)}
	}

	db := client.Database(database)
	return &MongoStorage{
		client:  client,
		history: db.Collection(collection),
		users:   db.Collection(usersCollection),
		logger:  logger.With("component", "mongo_storage"),
	}, nil
}

func (s *MongoStorage) Name() string { return "mongodb" }

func (s *MongoStorage) CreateUser(ctx context.Context, user *types.User) error {
	_, err := s.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return types.ErrUserExists
	}
	if err != nil {
		return &types.StorageError{Backend: "mongodb", Err: err}
	}
	s.logger.Info("user created", "email", user.Email)
	return nil
}

func (s *MongoStorage) GetUser(ctx context.Context, email string) (*types.User, error) {
	var user types.User
	err := s.users.FindOne(ctx, bson.M{"_id": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, types.ErrBadCredentials
	}
	if err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: err}
	}
	return &user, nil
}

func (s *MongoStorage) SaveAnalysis(ctx context.Context, owner string, product *types.ScoredProduct) error {
	return s.save(ctx, types.HistoryRecord{
		Owner:     owner,
		Kind:      KindAnalysis,
		Product:   product,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *MongoStorage) SaveComparison(ctx context.Context, owner string, cmp *types.ComparisonResult) error {
	return s.save(ctx, types.HistoryRecord{
		Owner:     owner,
		Kind:      KindComparison,
		Compare:   cmp,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *MongoStorage) save(ctx context.Context, record types.HistoryRecord) error {
	record.ID = primitive.NewObjectID().Hex()
	_, err := s.history.InsertOne(ctx, record)
	if err != nil {
		return &types.StorageError{Backend: "mongodb", Err: err}
	}
	s.logger.Debug("history record stored", "owner", record.Owner, "kind", record.Kind)
	return nil
}

func (s *MongoStorage) History(ctx context.Context, owner string) ([]types.HistoryRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.history.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: err}
	}
	defer cursor.Close(ctx)

	var records []types.HistoryRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: err}
	}
	return records, nil
}

func (s *MongoStorage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
