package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"officehub-backend/internal/model"
	"officehub-backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Category string
}

// ProfileUpdate holds the fields a user may change on a profile. Role and session state are not
// among them.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Category *string
}

type UserUsecase struct {
	repo repository.UserRepository
}

func NewUserUsecase(repo repository.UserRepository) *UserUsecase {
	return &UserUsecase{repo: repo}
}

// Register is the public sign-up; it always creates an Employee.
func (u *UserUsecase) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	input.Role = string(model.RoleEmployee)
	return u.Create(ctx, input)
}

// Create lets an administrator pick the role.
func (u *UserUsecase) Create(ctx context.Context, input RegisterInput) (*model.User, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < 6 {
		return nil, invalid("password", "at least 6 characters")
	}
	role := model.Role(input.Role)
	if role == "" {
		role = model.RoleEmployee
	}
	if !role.Valid() {
		return nil, invalid("role", "must be Owner, Manager or Employee")
	}

	// 1. Hashing Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// 2. Save to database
	user := &model.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Password:     string(hashedPassword),
		Role:         role,
		Category:     input.Category,
		SessionState: model.SessionInactive,
	}
	if err := u.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Authenticate checks the credentials only; starting the session is SessionUsecase.Login.
func (u *UserUsecase) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := u.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (u *UserUsecase) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, "user", id)
	}
	return user, nil
}

func (u *UserUsecase) List(ctx context.Context, search string) ([]model.User, error) {
	return u.repo.GetAll(ctx, search)
}

func (u *UserUsecase) Update(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error) {
	fields := map[string]interface{}{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, invalid("name", "required")
		}
		fields["name"] = name
	}
	if update.Email != nil {
		email, err := normalizeEmail(*update.Email)
		if err != nil {
			return nil, err
		}
		fields["email"] = email
	}
	if update.Category != nil {
		fields["category"] = strings.TrimSpace(*update.Category)
	}

	if err := u.repo.UpdateProfile(ctx, id, fields); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, missing(err, "user", id)
	}
	return u.Get(ctx, id)
}

func (u *UserUsecase) Delete(ctx context.Context, id uint) error {
	if err := u.repo.Delete(ctx, id); err != nil {
		return missing(err, "user", id)
	}
	return nil
}

func normalizeEmail(value string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(value))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", invalid("email", "invalid address")
	}
	return email, nil
}
