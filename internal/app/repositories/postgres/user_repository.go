package postgres

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
	"github.com/yigit/projectdesk/internal/pkg/helpers"
)

var userColumns = []string{
	"id", "name", "email", "password", "role", "phone",
	"roll_number", "class", "designation", "employee_id", "created_at", "updated_at",
}

type userRepository struct{ s *Store }

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u          models.User
		rollNumber sql.NullString
		employeeID sql.NullString
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Phone,
		&rollNumber, &u.Class, &u.Designation, &employeeID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.RollNumber = rollNumber.String
	u.EmployeeID = employeeID.String
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query, args, err := r.s.sb.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.Phone,
			helpers.GetContentNullString(user.RollNumber), user.Class, user.Designation,
			helpers.GetContentNullString(user.EmployeeID), user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return buildError(err, "create user")
	}

	if _, err := r.s.db.Exec(ctx, query, args...); err != nil {
		return writeError(err, "create user")
	}
	return nil
}

func (r *userRepository) getOne(ctx context.Context, where squirrel.Sqlizer, op string) (*models.User, error) {
	query, args, err := r.s.sb.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, buildError(err, op)
	}

	user, err := scanUser(r.s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, readError(err, apperrors.ErrUserNotFound, op)
	}
	return user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "get user by id")
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email}, "get user by email")
}

func (r *userRepository) list(ctx context.Context, where squirrel.Sqlizer, op string) ([]*models.User, error) {
	q := r.s.sb.Select(userColumns...).From("users").OrderBy("created_at ASC", "id ASC")
	if where != nil {
		q = q.Where(where)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, buildError(err, op)
	}

	rows, err := r.s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, readError(err, nil, op)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, readError(err, nil, op)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, readError(err, nil, op)
	}
	return users, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	out := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := r.list(ctx, squirrel.Eq{"id": ids}, "get users by ids")
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *userRepository) FindTeachersByName(ctx context.Context, name string) ([]*models.User, error) {
	return r.list(ctx, squirrel.Eq{"role": models.RoleTeacher, "name": name}, "find teachers by name")
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query, args, err := r.s.sb.Update("users").
		SetMap(map[string]interface{}{
			"name":       user.Name,
			"phone":      user.Phone,
			"updated_at": models.Now(),
		}).
		Where(squirrel.Eq{"id": user.ID}).
		Suffix("RETURNING " + joinColumns(userColumns)).
		ToSql()
	if err != nil {
		return buildError(err, "update user profile")
	}

	updated, err := scanUser(r.s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return readError(err, apperrors.ErrUserNotFound, "update user profile")
	}
	*user = *updated
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	return r.list(ctx, nil, "list users")
}
