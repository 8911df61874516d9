package service

import (
	"context"

	"implantstock/internal/models"
	"implantstock/internal/observability"
	"implantstock/internal/repository"
	"implantstock/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const (
	msgPasswordsDoNotMatch      = "Passwords do not match"
	msgUsernameTaken            = "Username already exists"
	msgInvalidCredentials       = "Invalid username or password"
	msgCurrentPasswordIncorrect = "Current password is incorrect"
	msgNewPasswordsDoNotMatch   = "New passwords do not match"
	msgDeletePasswordIncorrect  = "Password is incorrect. Account deletion canceled."
)

type UserService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
}

type RegisterInput struct {
	Username        string
	Password        string
	ConfirmPassword string
}

type ChangePasswordInput struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// NewUserService wires the identity rules. A nil hasher means bcrypt at its default cost.
func NewUserService(userRepo repository.UserRepository, hasher PasswordHasher) *UserService {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &UserService{userRepo: userRepo, hasher: hasher}
}

// Register creates a user. No session is started.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "user.Register")
	defer func() {
		observability.RecordAuthAttempt("register", outcomeOf(err))
		observability.EndSpan(span, err)
	}()

	if in.Password != in.ConfirmPassword {
		return nil, models.NewValidationError(msgPasswordsDoNotMatch)
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, validationError(err)
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, validationError(err)
	}

	existing, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError(msgUsernameTaken)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user = &models.User{Username: in.Username, PasswordHash: hash}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials. Unknown users and wrong passwords fail identically.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "user.Authenticate")
	defer func() {
		observability.RecordAuthAttempt("login", outcomeOf(err))
		observability.EndSpan(span, err)
	}()

	user, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Verify(user.PasswordHash, password) {
		return nil, models.NewUnauthorizedError(msgInvalidCredentials)
	}
	span.SetAttributes(attribute.Int64("user.id", int64(user.ID)))
	return user, nil
}

// CurrentUser loads the user a session points at.
func (s *UserService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ChangePassword verifies the current password before anything else.
func (s *UserService) ChangePassword(ctx context.Context, in ChangePasswordInput) (err error) {
	ctx, span := observability.StartSpan(ctx, "user.ChangePassword", attribute.Int64("user.id", int64(in.UserID)))
	defer func() {
		observability.RecordAuthAttempt("change_password", outcomeOf(err))
		observability.EndSpan(span, err)
	}()

	user, err := s.userRepo.GetWithCredentials(ctx, in.UserID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(user.PasswordHash, in.CurrentPassword) {
		return models.NewUnauthorizedError(msgCurrentPasswordIncorrect)
	}
	if in.NewPassword != in.ConfirmPassword {
		return models.NewValidationError(msgNewPasswordsDoNotMatch)
	}
	if err := validation.ValidatePassword(in.NewPassword); err != nil {
		return validationError(err)
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return models.NewInternalError(err)
	}
	return s.userRepo.UpdatePasswordHash(ctx, user.ID, hash)
}

// DeleteAccount removes the user and all of their implants. The deleted user
// is returned so callers can name it.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint, password string) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "user.DeleteAccount", attribute.Int64("user.id", int64(userID)))
	defer func() {
		observability.RecordAuthAttempt("delete_account", outcomeOf(err))
		observability.EndSpan(span, err)
	}()

	user, err = s.userRepo.GetWithCredentials(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, models.NewUnauthorizedError(msgDeletePasswordIncorrect)
	}
	if err := s.userRepo.DeleteWithImplants(ctx, userID); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureDefaultUser creates username only when no user exists yet.
func (s *UserService) EnsureDefaultUser(ctx context.Context, username, password string) (bool, error) {
	n, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.Register(ctx, RegisterInput{Username: username, Password: password, ConfirmPassword: password}); err != nil {
		return false, err
	}
	return true, nil
}
