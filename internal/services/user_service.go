package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"acmeledger/internal/common"
	"acmeledger/internal/models"
	"acmeledger/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserUpdate carries the optional fields of a user update. Password is plain text.
type UserUpdate struct {
	Username *string
	Password *string
	Roles    *[]string
	Active   *bool
}

type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Create(ctx context.Context, username, password string, roles []string) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	userRepo repositories.UserRepository
	cost     int
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo, cost: bcrypt.DefaultCost}
}

// NewUserServiceWithCost is NewUserService with an explicit bcrypt cost, used by tests.
func NewUserServiceWithCost(userRepo repositories.UserRepository, cost int) UserService {
	return &userService{userRepo: userRepo, cost: cost}
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

func (s *userService) hash(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", common.Validation("password", fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Register creates an administrator account.
func (s *userService) Register(ctx context.Context, username, password string) (*models.User, error) {
	return s.Create(ctx, username, password, []string{models.RoleAdmin})
}

func (s *userService) Create(ctx context.Context, username, password string, roles []string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := common.ValidateRequiredString(username, "username"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(password, "password"); err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, common.Validation("roles", "at least one role is required")
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Roles:        append([]string{}, roles...),
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) Update(ctx context.Context, id string, update UserUpdate) (*models.User, error) {
	if err := common.ValidateRequiredString(id, "id"); err != nil {
		return nil, err
	}

	var patch models.UserPatch
	if update.Username != nil {
		name := strings.TrimSpace(*update.Username)
		if err := common.ValidateRequiredString(name, "username"); err != nil {
			return nil, err
		}
		patch.Username = &name
	}
	if update.Password != nil && *update.Password != "" {
		hash, err := s.hash(*update.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}
	if update.Roles != nil {
		if len(*update.Roles) == 0 {
			return nil, common.Validation("roles", "at least one role is required")
		}
		patch.Roles = update.Roles
	}
	patch.Active = update.Active

	return s.userRepo.Update(ctx, id, patch)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if err := common.ValidateRequiredString(id, "id"); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}
