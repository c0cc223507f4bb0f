package auth

import (
	"errors"

	"gorm.io/gorm"

	"github.com/crickside/pitchbook/internal/user"
)

// AuthRepository defines the identity lookups the gate needs.
type AuthRepository interface {
	CreateUser(u *user.User) error
	FindByLoginIdentifier(identifier string) (*user.User, error)
	UsernameOrEmailTaken(username, email string) (bool, error)
}

// GormAuthRepository implements AuthRepository using GORM.
type GormAuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) *GormAuthRepository {
	return &GormAuthRepository{db: db}
}

func (r *GormAuthRepository) CreateUser(u *user.User) error {
	return r.db.Create(u).Error
}

// FindByLoginIdentifier resolves a user by email or username.
func (r *GormAuthRepository) FindByLoginIdentifier(identifier string) (*user.User, error) {
	var u user.User
	err := r.db.Where("email = ? OR username = ?", identifier, identifier).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormAuthRepository) UsernameOrEmailTaken(username, email string) (bool, error) {
	var count int64
	err := r.db.Model(&user.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}
