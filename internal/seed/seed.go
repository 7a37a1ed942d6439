// Package seed provisions the mentor accounts listed in the configuration.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/app/repositories"
	"github.com/yigit/projectdesk/internal/app/services"
	"github.com/yigit/projectdesk/internal/config"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
)

// CreateTeachers registers every configured teacher whose email is not taken yet.
// A failing entry is logged and does not stop the others.
func CreateTeachers(
	ctx context.Context,
	users repositories.UserRepository,
	authService *services.AuthService,
	teachers []config.SeedTeacher,
	lgr zerolog.Logger,
) error {
	if len(teachers) == 0 {
		return nil
	}

	lgr.Info().Int("count", len(teachers)).Msg("Checking/Creating seed teachers...")
	var finalErr error

	for _, t := range teachers {
		email := services.NormalizeEmail(t.Email)
		_, err := users.GetByEmail(ctx, email)
		if err == nil {
			lgr.Debug().Str("email", email).Msg("Seed teacher already exists")
			continue
		}
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			finalErr = errors.Join(finalErr, fmt.Errorf("error looking up %s: %w", email, err))
			continue
		}

		_, err = authService.RegisterUser(ctx, &dto.RegisterRequest{
			Name:        t.Name,
			Email:       email,
			Password:    t.Password,
			Role:        string(models.RoleTeacher),
			Phone:       t.Phone,
			Designation: t.Designation,
			EmployeeID:  t.EmployeeID,
		})
		if err != nil {
			lgr.Error().Err(err).Str("email", email).Msg("Error creating seed teacher")
			finalErr = errors.Join(finalErr, fmt.Errorf("error creating %s: %w", email, err))
			continue
		}
		lgr.Info().Str("email", email).Str("name", t.Name).Msg("Seed teacher created")
	}

	return finalErr
}
