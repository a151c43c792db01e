package access

import (
	"errors"
	"fmt"

	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/complytrack/compliance-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUnknownUser  = errors.New("user no longer exists")
	ErrInactiveUser = errors.New("user is inactive")
)

// Loader rebuilds a caller's scope from the database so that role and grant
// changes take effect without waiting for the token to expire.
type Loader struct {
	users  repository.UserRepository
	grants repository.GrantRepository
}

func NewLoader(users repository.UserRepository, grants repository.GrantRepository) *Loader {
	return &Loader{users: users, grants: grants}
}

// Load returns the stored user and their scope.
func (l *Loader) Load(userID uint64) (*models.User, Scope, error) {
	user, err := l.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Scope{}, ErrUnknownUser
		}
		return nil, Scope{}, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, Scope{}, ErrInactiveUser
	}

	role, err := models.ParseRole(string(user.Role))
	if err != nil {
		return nil, Scope{}, fmt.Errorf("user %d: %w", user.ID, err)
	}

	grants, err := l.grants.ListActiveByUser(user.ID)
	if err != nil {
		return nil, Scope{}, fmt.Errorf("failed to load grants: %w", err)
	}

	return user, NewScope(user.ID, role, grants), nil
}
