package user

import (
	"errors"
	"time"

	"backend/internal/apperr"

	"gorm.io/gorm"
)

type Repository interface {
	GetByID(id uint64) (*User, error)
	GetByName(name string) (*User, error)
	List() ([]*User, error)
	UpdateStatus(id uint64, status string) error
	UpdatePersona(id uint64, fields map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(id uint64) (*User, error) {
	var user User
	err := r.db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "user", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByName resolves a mention target by exact name match. A missing
// user is not an error for the caller, so it returns nil, nil.
func (r *repository) GetByName(name string) (*User, error) {
	var user User
	err := r.db.Where("name = ?", name).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) List() ([]*User, error) {
	var users []*User
	err := r.db.Order("name ASC").Find(&users).Error
	return users, err
}

func (r *repository) UpdateStatus(id uint64, status string) error {
	return r.db.Model(&User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"last_seen_at": time.Now().UTC(),
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *repository) UpdatePersona(id uint64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	return r.db.Model(&User{}).Where("id = ?", id).Updates(fields).Error
}
