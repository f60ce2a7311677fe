package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/rollcall/rollcall/internal/model"
)

const (
	defaultMongoDatabase = "rollcall"
	usersCollection      = "users"
)

// userDocument is the BSON shape of a user in the users collection.
type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toModel() *model.User {
	return &model.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// Mongo stores users in a MongoDB collection.
type Mongo struct {
	client *mongo.Client
	users  *mongo.Collection
	now    func() time.Time
}

func openMongo(ctx context.Context, uri string) (*Mongo, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to parse MongoDB URI: %w", err)
	}
	database := cs.Database
	if database == "" {
		database = defaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetMinPoolSize(2))
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m := &Mongo{
		client: client,
		users:  client.Database(database).Collection(usersCollection),
		now:    time.Now,
	}

	_, err = m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create users index: %w", err)
	}

	return m, nil
}

// CreateUser implements Store.
func (m *Mongo) CreateUser(ctx context.Context, u *model.User) error {
	if err := validateUser(u); err != nil {
		return err
	}

	// BSON dates carry millisecond precision.
	u.Stamp(m.now().Truncate(time.Millisecond))
	doc := userDocument{
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}

	res, err := m.users.InsertOne(ctx, doc)
	if err != nil {
		return classifyMongo("create user", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return &PersistenceError{Op: "create user", Err: fmt.Errorf("unexpected inserted id type %T", res.InsertedID)}
	}
	u.ID = oid.Hex()
	return nil
}

// ListUsers implements Store.
func (m *Mongo) ListUsers(ctx context.Context) ([]*model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := m.users.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, classifyMongo("list users", err)
	}
	defer cur.Close(ctx)

	users := make([]*model.User, 0)
	for cur.Next(ctx) {
		var doc userDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, &PersistenceError{Op: "decode user", Err: err}
		}
		users = append(users, doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, classifyMongo("list users", err)
	}

	return users, nil
}

// Ping implements Store.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close implements Store.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func classifyMongo(op string, err error) error {
	if mongo.IsNetworkError(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return &ConnectionError{Op: op, Err: err}
	}
	var selection topology.ServerSelectionError
	if errors.As(err, &selection) || mongo.IsTimeout(err) {
		return &ConnectionError{Op: op, Err: err}
	}
	return &PersistenceError{Op: op, Err: err}
}
