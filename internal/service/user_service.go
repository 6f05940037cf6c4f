package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"path"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Jow12560/bizlens-backend/internal/auth"
	"github.com/Jow12560/bizlens-backend/internal/config"
	"github.com/Jow12560/bizlens-backend/internal/domain"
	"github.com/Jow12560/bizlens-backend/internal/events"
	"github.com/Jow12560/bizlens-backend/internal/repository"
	"github.com/Jow12560/bizlens-backend/internal/storage"
	"github.com/Jow12560/bizlens-backend/pkg/util"
)

// CreateUserParams carries fields for a new staff account.
type CreateUserParams struct {
	FullName            string
	Email               string
	Password            string
	Role                string
	AssignedDepartments []string
}

// UpdateUserParams carries optional updates; nil fields are untouched.
// A supplied password is re-hashed before storage.
type UpdateUserParams struct {
	FullName            *string
	Email               *string
	Password            *string
	Role                *string
	AssignedDepartments []string
}

// UserService owns staff account CRUD and avatar storage.
type UserService struct {
	users      repository.UserRepository
	store      storage.ObjectStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// UserDependencies encapsulates collaborator requirements for the service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Store      storage.ObjectStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(cfg config.Config, deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      deps.UserRepo,
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// List returns every staff account ordered by id ascending.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, util.NewUpstreamError(err)
	}
	return users, nil
}

// Create hashes the password and inserts the account.
func (s *UserService) Create(ctx context.Context, params CreateUserParams) (*domain.User, error) {
	hash, err := auth.HashPassword(params.Password, s.bcryptCost)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	user := &domain.User{
		FullName:            params.FullName,
		Email:               strings.TrimSpace(params.Email),
		PasswordHash:        hash,
		Role:                params.Role,
		AssignedDepartments: params.AssignedDepartments,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, util.NewUpstreamError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserCreated, events.UserChangedPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}))
	return user, nil
}

// Update applies a partial update, re-hashing the password when supplied.
func (s *UserService) Update(ctx context.Context, id int64, params UpdateUserParams) (*domain.User, error) {
	patch := repository.UserPatch{
		FullName:            params.FullName,
		Email:               params.Email,
		Role:                params.Role,
		AssignedDepartments: params.AssignedDepartments,
	}
	if params.Password != nil {
		hash, err := auth.HashPassword(*params.Password, s.bcryptCost)
		if err != nil {
			return nil, util.NewInternalError(err)
		}
		patch.PasswordHash = &hash
	}

	user, err := s.users.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("User not found")
		}
		return nil, util.NewUpstreamError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserUpdated, events.UserChangedPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}))
	return user, nil
}

// Delete removes the account and best-effort purges its storage folder.
func (s *UserService) Delete(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("User not found")
		}
		return nil, util.NewUpstreamError(err)
	}

	if s.store != nil {
		if err := s.store.DeletePrefix(ctx, userFolder(id)); err != nil {
			s.logger.Warn("failed to purge user storage folder", zap.Int64("user_id", id), zap.Error(err))
		}
	}

	s.publish(ctx, events.NewEvent(events.EventUserDeleted, events.UserChangedPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}))
	return user, nil
}

// UploadAvatar stores an image under the user's folder with a unique name
// and records the object path on the account.
func (s *UserService) UploadAvatar(ctx context.Context, id int64, filename, contentType string, r io.Reader, size int64) (string, error) {
	if s.store == nil {
		return "", util.NewInternalError(errors.New("object storage not configured"))
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", util.NewNotFound("User not found")
		}
		return "", util.NewUpstreamError(err)
	}

	key := path.Join(userFolder(id), uniqueObjectName(filename))
	if err := s.store.Put(ctx, key, r, size, contentType); err != nil {
		return "", util.NewUpstreamError(err)
	}

	if _, err := s.users.Update(ctx, id, repository.UserPatch{AvatarPath: &key}); err != nil {
		// The object exists but the row update failed; remove the orphan.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned upload", zap.String("key", key), zap.Error(delErr))
		}
		return "", util.NewUpstreamError(err)
	}
	return key, nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func userFolder(id int64) string {
	return fmt.Sprintf("users/%d", id)
}

// uniqueObjectName derives a storage-safe object name: the transliterated
// filename already carries a millisecond timestamp; a random suffix is added
// so concurrent uploads of the same name cannot collide.
func uniqueObjectName(filename string) string {
	safe := util.TransliterateFilename(filename)
	ext := path.Ext(safe)
	base := strings.TrimSuffix(safe, ext)
	return fmt.Sprintf("%s-%d%s", base, rand.Intn(10000), ext)
}
