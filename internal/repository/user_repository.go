package repository

import (
	"context"

	"officehub-backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	GetAll(ctx context.Context, search string) ([]model.User, error)
	// UpdateProfile writes only name, email and category; other keys in fields are ignored.
	UpdateProfile(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	// SwapSession moves session_state from one value to another and stores sessionID.
	// It reports false when the user was not in the expected state.
	SwapSession(ctx context.Context, id uint, from, to model.SessionState, sessionID string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetAll(ctx context.Context, search string) ([]model.User, error) {
	var users []model.User
	query := r.db.WithContext(ctx).Order("name asc")

	if search != "" {
		searchPattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", searchPattern, searchPattern)
	}

	err := query.Find(&users).Error
	return users, err
}

func (r *userRepository) SwapSession(ctx context.Context, id uint, from, to model.SessionState, sessionID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND session_state = ?", id, from).
		Updates(map[string]interface{}{"session_state": to, "session_id": sessionID})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

var profileColumns = []string{"name", "email", "category"}

func (r *userRepository) UpdateProfile(ctx context.Context, id uint, fields map[string]interface{}) error {
	allowed := map[string]interface{}{}
	for _, column := range profileColumns {
		if v, ok := fields[column]; ok {
			allowed[column] = v
		}
	}
	if len(allowed) == 0 {
		_, err := r.FindByID(ctx, id)
		return err
	}

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(allowed)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		// MySQL reports 0 for a no-op update.
		_, err := r.FindByID(ctx, id)
		return err
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
