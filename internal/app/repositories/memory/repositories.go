package memory

import (
	"context"
	"sort"

	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/repositories"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
)

type userRepository struct{ s *Store }

func (r *userRepository) Create(_ context.Context, user *models.User) error {
	return r.s.with(func(t *tables) error {
		for _, u := range t.users {
			switch {
			case u.Email == user.Email:
				return repositories.DuplicateError(repositories.UniqueUserEmail)
			case user.RollNumber != "" && u.RollNumber == user.RollNumber:
				return repositories.DuplicateError(repositories.UniqueUserRollNumber)
			case user.EmployeeID != "" && u.EmployeeID == user.EmployeeID:
				return repositories.DuplicateError(repositories.UniqueUserEmployeeID)
			}
		}
		if err := r.s.beforeInsert(EntityUser); err != nil {
			return err
		}
		t.users[user.ID] = *user
		return nil
	})
}

func (r *userRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	var out *models.User
	err := r.s.with(func(t *tables) error {
		u, ok := t.users[id]
		if !ok {
			return apperrors.ErrUserNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	var out *models.User
	err := r.s.with(func(t *tables) error {
		for _, u := range t.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return apperrors.ErrUserNotFound
	})
	return out, err
}

func (r *userRepository) GetByIDs(_ context.Context, ids []string) (map[string]*models.User, error) {
	out := make(map[string]*models.User, len(ids))
	err := r.s.with(func(t *tables) error {
		for _, id := range ids {
			if u, ok := t.users[id]; ok {
				out[id] = &u
			}
		}
		return nil
	})
	return out, err
}

func (r *userRepository) FindTeachersByName(_ context.Context, name string) ([]*models.User, error) {
	var out []*models.User
	err := r.s.with(func(t *tables) error {
		for _, u := range t.users {
			if u.Role == models.RoleTeacher && u.Name == name {
				u := u
				out = append(out, &u)
			}
		}
		return nil
	})
	sortUsers(out)
	return out, err
}

func (r *userRepository) UpdateProfile(_ context.Context, user *models.User) error {
	return r.s.with(func(t *tables) error {
		u, ok := t.users[user.ID]
		if !ok {
			return apperrors.ErrUserNotFound
		}
		u.Name = user.Name
		u.Phone = user.Phone
		u.UpdatedAt = models.Now()
		t.users[u.ID] = u
		*user = u
		return nil
	})
}

func (r *userRepository) List(_ context.Context) ([]*models.User, error) {
	var out []*models.User
	err := r.s.with(func(t *tables) error {
		for _, u := range t.users {
			u := u
			out = append(out, &u)
		}
		return nil
	})
	sortUsers(out)
	return out, err
}

func sortUsers(users []*models.User) {
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
}

type projectRepository struct{ s *Store }

func (r *projectRepository) Create(_ context.Context, project *models.Project) error {
	return r.s.with(func(t *tables) error {
		for _, p := range t.projects {
			if p.StudentID == project.StudentID {
				return repositories.DuplicateError(repositories.UniqueProjectStudent)
			}
		}
		if err := r.s.beforeInsert(EntityProject); err != nil {
			return err
		}
		t.projects[project.ID] = copyProject(*project)
		return nil
	})
}

func (r *projectRepository) GetByID(_ context.Context, id string) (*models.Project, error) {
	var out *models.Project
	err := r.s.with(func(t *tables) error {
		p, ok := t.projects[id]
		if !ok {
			return apperrors.ErrProjectNotFound
		}
		p = copyProject(p)
		out = &p
		return nil
	})
	return out, err
}

func (r *projectRepository) GetByStudent(_ context.Context, studentID string) (*models.Project, error) {
	var out *models.Project
	err := r.s.with(func(t *tables) error {
		for _, p := range t.projects {
			if p.StudentID == studentID {
				p = copyProject(p)
				out = &p
				return nil
			}
		}
		return apperrors.ErrProjectNotFound
	})
	return out, err
}

func (r *projectRepository) GetByIDs(_ context.Context, ids []string) (map[string]*models.Project, error) {
	out := make(map[string]*models.Project, len(ids))
	err := r.s.with(func(t *tables) error {
		for _, id := range ids {
			if p, ok := t.projects[id]; ok {
				p = copyProject(p)
				out[id] = &p
			}
		}
		return nil
	})
	return out, err
}

func (r *projectRepository) ListByMentor(_ context.Context, mentorID string) ([]*models.Project, error) {
	return r.filter(func(p *models.Project) bool { return p.IsMentor(mentorID) })
}

func (r *projectRepository) ListForMember(_ context.Context, studentID, rollNumber string) ([]*models.Project, error) {
	return r.filter(func(p *models.Project) bool {
		return p.IsLeader(studentID) || p.HasMemberRoll(rollNumber)
	})
}

func (r *projectRepository) filter(keep func(p *models.Project) bool) ([]*models.Project, error) {
	var out []*models.Project
	err := r.s.with(func(t *tables) error {
		for _, p := range t.projects {
			p = copyProject(p)
			if keep(&p) {
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *projectRepository) update(id string, fn func(p *models.Project) error) (*models.Project, error) {
	var out *models.Project
	err := r.s.with(func(t *tables) error {
		p, ok := t.projects[id]
		if !ok {
			return apperrors.ErrProjectNotFound
		}
		if err := fn(&p); err != nil {
			return err
		}
		p.UpdatedAt = models.Now()
		t.projects[id] = p
		p = copyProject(p)
		out = &p
		return nil
	})
	return out, err
}

func (r *projectRepository) UpdateMentorStatus(_ context.Context, id string, from, to models.MentorStatus) (*models.Project, error) {
	return r.update(id, func(p *models.Project) error {
		if p.MentorStatus != from {
			return repositories.MentorTransitionError(p.MentorStatus)
		}
		p.MentorStatus = to
		return nil
	})
}

func (r *projectRepository) UpdateFinalRemarks(_ context.Context, id, remarks string) (*models.Project, error) {
	return r.update(id, func(p *models.Project) error {
		p.FinalRemarks = remarks
		return nil
	})
}

func (r *projectRepository) UpdateDescription(_ context.Context, id, description string) (*models.Project, error) {
	return r.update(id, func(p *models.Project) error {
		p.Description = description
		return nil
	})
}

type documentRepository struct{ s *Store }

func (r *documentRepository) Create(_ context.Context, doc *models.Document) error {
	return r.s.with(func(t *tables) error {
		for _, d := range t.documents {
			if d.FileName == doc.FileName {
				return repositories.DuplicateError(repositories.UniqueDocumentFileName)
			}
		}
		if _, ok := t.projects[doc.ProjectID]; !ok {
			return apperrors.ErrProjectNotFound
		}
		if err := r.s.beforeInsert(EntityDocument); err != nil {
			return err
		}
		t.documents[doc.ID] = *doc
		return nil
	})
}

func (r *documentRepository) GetByID(_ context.Context, id string) (*models.Document, error) {
	return r.find(func(d *models.Document) bool { return d.ID == id })
}

func (r *documentRepository) GetByFileName(_ context.Context, fileName string) (*models.Document, error) {
	return r.find(func(d *models.Document) bool { return d.FileName == fileName })
}

func (r *documentRepository) find(match func(d *models.Document) bool) (*models.Document, error) {
	var out *models.Document
	err := r.s.with(func(t *tables) error {
		for _, d := range t.documents {
			if match(&d) {
				d := d
				out = &d
				return nil
			}
		}
		return apperrors.ErrDocumentNotFound
	})
	return out, err
}

func (r *documentRepository) collect(keep func(d *models.Document) bool) ([]*models.Document, error) {
	var out []*models.Document
	err := r.s.with(func(t *tables) error {
		for _, d := range t.documents {
			if keep(&d) {
				d := d
				out = append(out, &d)
			}
		}
		return nil
	})
	return out, err
}

func (r *documentRepository) ListByProject(_ context.Context, projectID string) ([]*models.Document, error) {
	docs, err := r.collect(func(d *models.Document) bool { return d.ProjectID == projectID })
	sortOldestFirst(docs)
	return docs, err
}

func (r *documentRepository) ListPendingByProjects(_ context.Context, projectIDs []string) ([]*models.Document, error) {
	in := idSet(projectIDs)
	docs, err := r.collect(func(d *models.Document) bool {
		return in[d.ProjectID] && d.Status == models.DocumentStatusPending
	})
	sortOldestFirst(docs)
	return docs, err
}

func (r *documentRepository) ListDecidedByProjects(_ context.Context, projectIDs []string, limit int) ([]*models.Document, error) {
	in := idSet(projectIDs)
	docs, err := r.collect(func(d *models.Document) bool {
		return in[d.ProjectID] && d.Status.IsTerminal()
	})
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].UpdatedAt.Equal(docs[j].UpdatedAt) {
			return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, err
}

func (r *documentRepository) UpdateStatus(_ context.Context, id string, from, to models.DocumentStatus) (*models.Document, error) {
	var out *models.Document
	err := r.s.with(func(t *tables) error {
		d, ok := t.documents[id]
		if !ok {
			return apperrors.ErrDocumentNotFound
		}
		if d.Status != from {
			return repositories.DocumentTransitionError(d.Status)
		}
		d.Status = to
		d.UpdatedAt = models.Now()
		t.documents[id] = d
		out = &d
		return nil
	})
	return out, err
}

func (r *documentRepository) Delete(_ context.Context, id string) error {
	return r.s.with(func(t *tables) error {
		if _, ok := t.documents[id]; !ok {
			return apperrors.ErrDocumentNotFound
		}
		delete(t.documents, id)
		return nil
	})
}

func sortOldestFirst(docs []*models.Document) {
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

type notificationRepository struct{ s *Store }

func (r *notificationRepository) Create(_ context.Context, n *models.Notification) error {
	return r.s.with(func(t *tables) error {
		if err := r.s.beforeInsert(EntityNotification); err != nil {
			return err
		}
		t.notifications[n.ID] = *n
		return nil
	})
}

func (r *notificationRepository) GetByID(_ context.Context, id string) (*models.Notification, error) {
	var out *models.Notification
	err := r.s.with(func(t *tables) error {
		n, ok := t.notifications[id]
		if !ok {
			return apperrors.ErrNotificationNotFound
		}
		out = &n
		return nil
	})
	return out, err
}

func (r *notificationRepository) ListByRecipient(_ context.Context, recipientID string) ([]*models.Notification, error) {
	var out []*models.Notification
	err := r.s.with(func(t *tables) error {
		for _, n := range t.notifications {
			if n.RecipientID == recipientID {
				n := n
				out = append(out, &n)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func (r *notificationRepository) MarkRead(_ context.Context, id string) (*models.Notification, error) {
	var out *models.Notification
	err := r.s.with(func(t *tables) error {
		n, ok := t.notifications[id]
		if !ok {
			return apperrors.ErrNotificationNotFound
		}
		if !n.IsRead {
			n.IsRead = true
			n.UpdatedAt = models.Now()
			t.notifications[id] = n
		}
		out = &n
		return nil
	})
	return out, err
}
