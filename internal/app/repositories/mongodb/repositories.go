package mongodb

import (
	"context"
	"errors"

	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/repositories"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userRepository struct{ s *Store }

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if _, err := r.s.users().InsertOne(ctx, user); err != nil {
		return writeError(err, "create user")
	}
	return nil
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M, op string) (*models.User, error) {
	var u models.User
	if err := r.s.users().FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, readError(err, apperrors.ErrUserNotFound, op)
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, "get user by id")
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, "get user by email")
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	out := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := findAll[models.User](ctx, r.s.users(), bson.M{"_id": bson.M{"$in": ids}}, nil, "get users by ids")
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *userRepository) FindTeachersByName(ctx context.Context, name string) ([]*models.User, error) {
	filter := bson.M{"role": models.RoleTeacher, "name": name}
	return findAll[models.User](ctx, r.s.users(), filter, oldestFirst(), "find teachers by name")
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	update := bson.M{"$set": bson.M{"name": user.Name, "phone": user.Phone, "updatedAt": models.Now()}}
	var updated models.User
	err := r.s.users().FindOneAndUpdate(ctx, bson.M{"_id": user.ID}, update, returnAfter()).Decode(&updated)
	if err != nil {
		return readError(err, apperrors.ErrUserNotFound, "update user profile")
	}
	*user = updated
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	return findAll[models.User](ctx, r.s.users(), bson.M{}, oldestFirst(), "list users")
}

type projectRepository struct{ s *Store }

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	doc := *project
	if doc.Members == nil {
		doc.Members = []models.Member{}
	}
	if _, err := r.s.projects().InsertOne(ctx, doc); err != nil {
		return writeError(err, "create project")
	}
	return nil
}

func (r *projectRepository) findOne(ctx context.Context, filter bson.M, op string) (*models.Project, error) {
	var p models.Project
	if err := r.s.projects().FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, readError(err, apperrors.ErrProjectNotFound, op)
	}
	return &p, nil
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	return r.findOne(ctx, bson.M{"_id": id}, "get project by id")
}

func (r *projectRepository) GetByStudent(ctx context.Context, studentID string) (*models.Project, error) {
	return r.findOne(ctx, bson.M{"student": studentID}, "get project by student")
}

func (r *projectRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Project, error) {
	out := make(map[string]*models.Project, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	projects, err := findAll[models.Project](ctx, r.s.projects(), bson.M{"_id": bson.M{"$in": ids}}, nil, "get projects by ids")
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		out[p.ID] = p
	}
	return out, nil
}

func (r *projectRepository) ListByMentor(ctx context.Context, mentorID string) ([]*models.Project, error) {
	return findAll[models.Project](ctx, r.s.projects(), bson.M{"mentor": mentorID}, oldestFirst(), "list projects by mentor")
}

func (r *projectRepository) ListForMember(ctx context.Context, studentID, rollNumber string) ([]*models.Project, error) {
	or := bson.A{bson.M{"student": studentID}}
	if rollNumber != "" {
		or = append(or, bson.M{"members.memberRoll": rollNumber})
	}
	return findAll[models.Project](ctx, r.s.projects(), bson.M{"$or": or}, oldestFirst(), "list projects for member")
}

func (r *projectRepository) update(ctx context.Context, filter bson.M, set bson.M) (*models.Project, error) {
	set["updatedAt"] = models.Now()
	var p models.Project
	err := r.s.projects().FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, returnAfter()).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepository) UpdateMentorStatus(ctx context.Context, id string, from, to models.MentorStatus) (*models.Project, error) {
	const op = "update mentor status"
	p, err := r.update(ctx, bson.M{"_id": id, "mentorStatus": from}, bson.M{"mentorStatus": to})
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, readError(err, nil, op)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, repositories.MentorTransitionError(current.MentorStatus)
}

func (r *projectRepository) UpdateFinalRemarks(ctx context.Context, id, remarks string) (*models.Project, error) {
	p, err := r.update(ctx, bson.M{"_id": id}, bson.M{"finalRemarks": remarks})
	if err != nil {
		return nil, readError(err, apperrors.ErrProjectNotFound, "update final remarks")
	}
	return p, nil
}

func (r *projectRepository) UpdateDescription(ctx context.Context, id, description string) (*models.Project, error) {
	p, err := r.update(ctx, bson.M{"_id": id}, bson.M{"description": description})
	if err != nil {
		return nil, readError(err, apperrors.ErrProjectNotFound, "update description")
	}
	return p, nil
}

type documentRepository struct{ s *Store }

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	if _, err := r.s.documents().InsertOne(ctx, doc); err != nil {
		return writeError(err, "create document")
	}
	return nil
}

func (r *documentRepository) findOne(ctx context.Context, filter bson.M, op string) (*models.Document, error) {
	var d models.Document
	if err := r.s.documents().FindOne(ctx, filter).Decode(&d); err != nil {
		return nil, readError(err, apperrors.ErrDocumentNotFound, op)
	}
	return &d, nil
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	return r.findOne(ctx, bson.M{"_id": id}, "get document by id")
}

func (r *documentRepository) GetByFileName(ctx context.Context, fileName string) (*models.Document, error) {
	return r.findOne(ctx, bson.M{"fileName": fileName}, "get document by file name")
}

func (r *documentRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Document, error) {
	return findAll[models.Document](ctx, r.s.documents(), bson.M{"project": projectID}, oldestFirst(), "list documents by project")
}

func (r *documentRepository) ListPendingByProjects(ctx context.Context, projectIDs []string) ([]*models.Document, error) {
	if len(projectIDs) == 0 {
		return []*models.Document{}, nil
	}
	filter := bson.M{"project": bson.M{"$in": projectIDs}, "status": models.DocumentStatusPending}
	return findAll[models.Document](ctx, r.s.documents(), filter, oldestFirst(), "list pending documents")
}

func (r *documentRepository) ListDecidedByProjects(ctx context.Context, projectIDs []string, limit int) ([]*models.Document, error) {
	if len(projectIDs) == 0 {
		return []*models.Document{}, nil
	}
	filter := bson.M{"project": bson.M{"$in": projectIDs}, "status": bson.M{"$ne": models.DocumentStatusPending}}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return findAll[models.Document](ctx, r.s.documents(), filter, opts, "list decided documents")
}

func (r *documentRepository) UpdateStatus(ctx context.Context, id string, from, to models.DocumentStatus) (*models.Document, error) {
	const op = "update document status"
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": models.Now()}}
	var d models.Document
	err := r.s.documents().FindOneAndUpdate(ctx, bson.M{"_id": id, "status": from}, update, returnAfter()).Decode(&d)
	if err == nil {
		return &d, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, readError(err, nil, op)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, repositories.DocumentTransitionError(current.Status)
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.s.documents().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return writeError(err, "delete document")
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrDocumentNotFound
	}
	return nil
}

type notificationRepository struct{ s *Store }

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if _, err := r.s.notifications().InsertOne(ctx, n); err != nil {
		return writeError(err, "create notification")
	}
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	if err := r.s.notifications().FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		return nil, readError(err, apperrors.ErrNotificationNotFound, "get notification")
	}
	return &n, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]*models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return findAll[models.Notification](ctx, r.s.notifications(), bson.M{"recipient": recipientID}, opts, "list notifications")
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) (*models.Notification, error) {
	_, err := r.s.notifications().UpdateOne(ctx,
		bson.M{"_id": id, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true, "updatedAt": models.Now()}})
	if err != nil {
		return nil, writeError(err, "mark notification read")
	}
	return r.GetByID(ctx, id)
}
