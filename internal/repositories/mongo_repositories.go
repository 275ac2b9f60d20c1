package repositories

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anonto42/pinboard/backend/internal/models"
)

// Mongo backing for every store. Natural keys go into _id, so the duplicate-key
// error on insert doubles as the no-op branch of insert-if-absent.

type mongoUserDoc struct {
	ID           string `bson:"_id"`
	Username     string `bson:"username"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// Create pre-checks both identifiers and then inserts. The check-then-act pair
// is not atomic; a concurrent duplicate registration can slip through, which
// the original service accepted as well.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if _, err := r.findOne(ctx, bson.M{"email": user.Email}); err == nil {
		return ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	if _, err := r.findOne(ctx, bson.M{"username": user.Username}); err == nil {
		return ErrDuplicateUsername
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	doc := mongoUserDoc{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return errors.Wrap(err, "insert user")
	}
	return nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	user, err := r.findOne(ctx, bson.M{"email": identifier})
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"username": identifier})
}

func (r *MongoUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "find users")
	}
	defer cursor.Close(ctx)

	var docs []mongoUserDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}
	users := make([]models.User, len(docs))
	for i, d := range docs {
		users[i] = models.User{ID: d.ID, Username: d.Username, Email: d.Email, PasswordHash: d.PasswordHash}
	}
	return users, nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc mongoUserDoc
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	return &models.User{ID: doc.ID, Username: doc.Username, Email: doc.Email, PasswordHash: doc.PasswordHash}, nil
}

// MongoSessionRepository implements SessionRepository for MongoDB
type MongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new MongoSessionRepository
func NewMongoSessionRepository(db *mongo.Database) *MongoSessionRepository {
	return &MongoSessionRepository{collection: db.Collection("sessions")}
}

func (r *MongoSessionRepository) Create(ctx context.Context, token, userID string) error {
	_, err := r.collection.InsertOne(ctx, bson.M{"_id": token, "user_id": userID})
	return errors.Wrap(err, "insert session")
}

func (r *MongoSessionRepository) Resolve(ctx context.Context, token string) (string, error) {
	var doc struct {
		UserID string `bson:"user_id"`
	}
	err := r.collection.FindOne(ctx, bson.M{"_id": token}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "find session")
	}
	return doc.UserID, nil
}

func (r *MongoSessionRepository) Revoke(ctx context.Context, token string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": token})
	return errors.Wrap(err, "delete session")
}

type mongoPinDoc struct {
	ID  string     `bson:"_id"`
	Pin models.Pin `bson:"pin"`
}

// MongoPinRepository implements PinRepository for MongoDB
type MongoPinRepository struct {
	collection *mongo.Collection
}

// NewMongoPinRepository creates a new MongoPinRepository
func NewMongoPinRepository(db *mongo.Database) *MongoPinRepository {
	return &MongoPinRepository{collection: db.Collection("pins")}
}

func (r *MongoPinRepository) List(ctx context.Context) ([]models.Pin, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "find pins")
	}
	defer cursor.Close(ctx)

	var docs []mongoPinDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode pins")
	}
	pins := make([]models.Pin, len(docs))
	for i, d := range docs {
		pins[i] = d.Pin
	}
	return pins, nil
}

func (r *MongoPinRepository) GetByID(ctx context.Context, id string) (*models.Pin, error) {
	var doc mongoPinDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find pin")
	}
	return &doc.Pin, nil
}

func (r *MongoPinRepository) InsertIfAbsent(ctx context.Context, pin *models.Pin) error {
	_, err := r.collection.InsertOne(ctx, mongoPinDoc{ID: pin.ID, Pin: *pin})
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return errors.Wrap(err, "insert pin")
}

func (r *MongoPinRepository) Update(ctx context.Context, pin *models.Pin) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": pin.ID}, mongoPinDoc{ID: pin.ID, Pin: *pin})
	return errors.Wrap(err, "replace pin")
}

func (r *MongoPinRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return errors.Wrap(err, "delete pin")
}

func (r *MongoPinRepository) ClearAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.D{})
	return errors.Wrap(err, "clear pins")
}

// MongoSavedPinRepository implements SavedPinRepository for MongoDB
type MongoSavedPinRepository struct {
	collection *mongo.Collection
}

// NewMongoSavedPinRepository creates a new MongoSavedPinRepository
func NewMongoSavedPinRepository(db *mongo.Database) *MongoSavedPinRepository {
	return &MongoSavedPinRepository{collection: db.Collection("saved_pins")}
}

func (r *MongoSavedPinRepository) Get(ctx context.Context, userID string) ([]string, error) {
	var doc struct {
		PinIDs []string `bson:"pin_ids"`
	}
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return []string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find saved pins")
	}
	return doc.PinIDs, nil
}

func (r *MongoSavedPinRepository) Replace(ctx context.Context, userID string, pinIDs []string) error {
	if pinIDs == nil {
		pinIDs = []string{}
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": userID}, bson.M{"_id": userID, "pin_ids": pinIDs}, opts)
	return errors.Wrap(err, "replace saved pins")
}

func (r *MongoSavedPinRepository) Add(ctx context.Context, userID, pinID string) error {
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$addToSet": bson.M{"pin_ids": pinID}}, opts)
	return errors.Wrap(err, "add saved pin")
}

func (r *MongoSavedPinRepository) Remove(ctx context.Context, userID, pinID string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"pin_ids": pinID}})
	return errors.Wrap(err, "remove saved pin")
}
