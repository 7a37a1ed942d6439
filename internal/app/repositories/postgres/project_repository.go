package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/repositories"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
	"github.com/yigit/projectdesk/internal/pkg/helpers"
)

var projectColumns = []string{
	"id", "title", "description", "student_id", "members", "mentor_id",
	"requested_mentor_name", "mentor_status", "final_remarks", "created_at", "updated_at",
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

type projectRepository struct{ s *Store }

func scanProject(row pgx.Row) (*models.Project, error) {
	var (
		p        models.Project
		members  []byte
		mentorID sql.NullString
	)
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.StudentID, &members, &mentorID,
		&p.RequestedMentorName, &p.MentorStatus, &p.FinalRemarks, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.MentorID = mentorID.String
	if len(members) > 0 {
		if err := json.Unmarshal(members, &p.Members); err != nil {
			return nil, fmt.Errorf("decode members of project %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

func encodeMembers(members []models.Member) ([]byte, error) {
	if members == nil {
		members = []models.Member{}
	}
	return json.Marshal(members)
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	members, err := encodeMembers(project.Members)
	if err != nil {
		return fmt.Errorf("encode members: %w", err)
	}

	query, args, err := r.s.sb.Insert("projects").
		Columns(projectColumns...).
		Values(project.ID, project.Title, project.Description, project.StudentID, members,
			helpers.GetContentNullString(project.MentorID), project.RequestedMentorName,
			project.MentorStatus, project.FinalRemarks, project.CreatedAt, project.UpdatedAt).
		ToSql()
	if err != nil {
		return buildError(err, "create project")
	}

	if _, err := r.s.db.Exec(ctx, query, args...); err != nil {
		return writeError(err, "create project")
	}
	return nil
}

func (r *projectRepository) getOne(ctx context.Context, where squirrel.Sqlizer, op string) (*models.Project, error) {
	query, args, err := r.s.sb.Select(projectColumns...).From("projects").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, buildError(err, op)
	}

	project, err := scanProject(r.s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, readError(err, apperrors.ErrProjectNotFound, op)
	}
	return project, nil
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "get project by id")
}

func (r *projectRepository) GetByStudent(ctx context.Context, studentID string) (*models.Project, error) {
	return r.getOne(ctx, squirrel.Eq{"student_id": studentID}, "get project by student")
}

func (r *projectRepository) list(ctx context.Context, where squirrel.Sqlizer, op string) ([]*models.Project, error) {
	query, args, err := r.s.sb.Select(projectColumns...).
		From("projects").
		Where(where).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, buildError(err, op)
	}

	rows, err := r.s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, readError(err, nil, op)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, readError(err, nil, op)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, readError(err, nil, op)
	}
	return projects, nil
}

func (r *projectRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Project, error) {
	out := make(map[string]*models.Project, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	projects, err := r.list(ctx, squirrel.Eq{"id": ids}, "get projects by ids")
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		out[p.ID] = p
	}
	return out, nil
}

func (r *projectRepository) ListByMentor(ctx context.Context, mentorID string) ([]*models.Project, error) {
	return r.list(ctx, squirrel.Eq{"mentor_id": mentorID}, "list projects by mentor")
}

func (r *projectRepository) ListForMember(ctx context.Context, studentID, rollNumber string) ([]*models.Project, error) {
	where := squirrel.Or{squirrel.Eq{"student_id": studentID}}
	if rollNumber != "" {
		probe, err := json.Marshal([]map[string]string{{"memberRoll": rollNumber}})
		if err != nil {
			return nil, fmt.Errorf("encode roster probe: %w", err)
		}
		// served by the GIN index on members
		where = append(where, squirrel.Expr("members @> ?::jsonb", string(probe)))
	}
	return r.list(ctx, where, "list projects for member")
}

// update applies set to one row, optionally guarded by an extra condition.
// A guarded update that matches nothing re-reads the row to tell a missing
// project from a failed guard.
func (r *projectRepository) update(ctx context.Context, id string, set map[string]interface{}, guard squirrel.Sqlizer, op string) (*models.Project, bool, error) {
	set["updated_at"] = models.Now()
	where := squirrel.And{squirrel.Eq{"id": id}}
	if guard != nil {
		where = append(where, guard)
	}

	query, args, err := r.s.sb.Update("projects").
		SetMap(set).
		Where(where).
		Suffix("RETURNING " + joinColumns(projectColumns)).
		ToSql()
	if err != nil {
		return nil, false, buildError(err, op)
	}

	project, err := scanProject(r.s.db.QueryRow(ctx, query, args...))
	if err == nil {
		return project, true, nil
	}
	if err := readError(err, nil, op); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

func (r *projectRepository) UpdateMentorStatus(ctx context.Context, id string, from, to models.MentorStatus) (*models.Project, error) {
	project, ok, err := r.update(ctx, id,
		map[string]interface{}{"mentor_status": to},
		squirrel.Eq{"mentor_status": from},
		"update mentor status")
	if err != nil || ok {
		return project, err
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, repositories.MentorTransitionError(current.MentorStatus)
}

func (r *projectRepository) updateField(ctx context.Context, id, column, value, op string) (*models.Project, error) {
	project, ok, err := r.update(ctx, id, map[string]interface{}{column: value}, nil, op)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrProjectNotFound
	}
	return project, nil
}

func (r *projectRepository) UpdateFinalRemarks(ctx context.Context, id, remarks string) (*models.Project, error) {
	return r.updateField(ctx, id, "final_remarks", remarks, "update final remarks")
}

func (r *projectRepository) UpdateDescription(ctx context.Context, id, description string) (*models.Project, error) {
	return r.updateField(ctx, id, "description", description, "update description")
}
