package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/authvault/internal/common"
	"github.com/dmitrijs2005/authvault/internal/logging"
	"github.com/dmitrijs2005/authvault/internal/server/models"
	"github.com/dmitrijs2005/authvault/internal/server/repositories/repomanager"
)

// ProfileService exposes the authenticated user's own profile.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		logger:      l.With("module", "profile_service"),
	}
}

// GetProfile returns the public view of the user with the given ID.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.repomanager.Users(s.db).FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "user lookup failed", "error", err, "user_id", userID)
		return nil, common.ErrorInternal
	}
	return user.Public(), nil
}

// UpdateProfile changes the user's display name and returns the updated
// public view.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID, name string) (*models.PublicUser, error) {
	user, err := s.repomanager.Users(s.db).UpdateName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "profile update failed", "error", err, "user_id", userID)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "profile updated", "user_id", userID)
	return user.Public(), nil
}
