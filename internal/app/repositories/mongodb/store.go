// Package mongodb implements the repositories on MongoDB. Transactions need a
// replica set, which is also what a single-node development server can run as.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/projectdesk/internal/app/repositories"
	"github.com/yigit/projectdesk/internal/pkg/dberrors"
	"github.com/yigit/projectdesk/internal/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	UsersCollection         = "users"
	ProjectsCollection      = "projects"
	DocumentsCollection     = "documents"
	NotificationsCollection = "notifications"
)

// Store is a MongoDB repositories.Store
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	inTx   bool
}

var _ repositories.Store = (*Store)(nil)

// NewStore wraps a connected client
func NewStore(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

func (s *Store) users() *mongo.Collection         { return s.db.Collection(UsersCollection) }
func (s *Store) projects() *mongo.Collection      { return s.db.Collection(ProjectsCollection) }
func (s *Store) documents() *mongo.Collection     { return s.db.Collection(DocumentsCollection) }
func (s *Store) notifications() *mongo.Collection { return s.db.Collection(NotificationsCollection) }

// Users returns the user repository
func (s *Store) Users() repositories.UserRepository { return &userRepository{s: s} }

// Projects returns the project repository
func (s *Store) Projects() repositories.ProjectRepository { return &projectRepository{s: s} }

// Documents returns the document repository
func (s *Store) Documents() repositories.DocumentRepository { return &documentRepository{s: s} }

// Notifications returns the notification repository
func (s *Store) Notifications() repositories.NotificationRepository {
	return &notificationRepository{s: s}
}

// WithTransaction runs fn inside a session transaction. The driver may call fn
// again on transient errors.
func (s *Store) WithTransaction(ctx context.Context, fn repositories.TxFunc) error {
	if s.inTx {
		return fn(ctx, s)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	txStore := &Store{client: s.client, db: s.db, inTx: true}
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, txStore)
	})
	return err
}

// Ping checks the primary
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Name identifies the backend
func (s *Store) Name() string { return "mongo" }

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes every query and uniqueness rule relies on.
// Index names match the PostgreSQL constraint names.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	presentString := func(field string) *options.IndexOptions {
		return options.Index().SetUnique(true).
			SetPartialFilterExpression(bson.M{field: bson.M{"$type": "string"}})
	}

	specs := map[*mongo.Collection][]mongo.IndexModel{
		s.users(): {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(repositories.UniqueUserEmail)},
			{Keys: bson.D{{Key: "rollNumber", Value: 1}}, Options: presentString("rollNumber").SetName(repositories.UniqueUserRollNumber)},
			{Keys: bson.D{{Key: "employeeId", Value: 1}}, Options: presentString("employeeId").SetName(repositories.UniqueUserEmployeeID)},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "name", Value: 1}}},
		},
		s.projects(): {
			{Keys: bson.D{{Key: "student", Value: 1}}, Options: options.Index().SetUnique(true).SetName(repositories.UniqueProjectStudent)},
			{Keys: bson.D{{Key: "mentor", Value: 1}}},
			{Keys: bson.D{{Key: "members.memberRoll", Value: 1}}},
		},
		s.documents(): {
			{Keys: bson.D{{Key: "fileName", Value: 1}}, Options: options.Index().SetUnique(true).SetName(repositories.UniqueDocumentFileName)},
			{Keys: bson.D{{Key: "project", Value: 1}, {Key: "status", Value: 1}}},
		},
		s.notifications(): {
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for coll, models := range specs {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

var uniqueIndexes = []string{
	repositories.UniqueUserEmail,
	repositories.UniqueUserRollNumber,
	repositories.UniqueUserEmployeeID,
	repositories.UniqueProjectStudent,
	repositories.UniqueDocumentFileName,
}

func writeError(err error, op string) error {
	for _, name := range uniqueIndexes {
		if dberrors.IsMongoDuplicateKey(err, name) {
			return repositories.DuplicateError(name)
		}
	}
	if dberrors.IsMongoDuplicateKey(err, "") {
		return repositories.DuplicateError("")
	}
	logger.Error().Err(err).Str("op", op).Msg("MongoDB write failed")
	return fmt.Errorf("error executing %s: %w", op, err)
}

func readError(err error, notFound error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) && notFound != nil {
		return notFound
	}
	logger.Error().Err(err).Str("op", op).Msg("MongoDB read failed")
	return fmt.Errorf("error executing %s: %w", op, err)
}

// findAll decodes every match of filter
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts *options.FindOptions, op string) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, readError(err, nil, op)
	}
	defer cursor.Close(ctx)

	var items []T
	if err := cursor.All(ctx, &items); err != nil {
		return nil, readError(err, nil, op)
	}

	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out, nil
}

func oldestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
}

func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
