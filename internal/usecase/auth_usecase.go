package usecase

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
	"github.com/MichaelVenturi/House-marketplace/internal/domain/repository"
	"github.com/MichaelVenturi/House-marketplace/pkg/errors"
	"github.com/MichaelVenturi/House-marketplace/pkg/logger"
)

type AuthUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
	sessions     SessionPublisher
}

func NewAuthUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient, sessions SessionPublisher) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
		sessions:     sessions,
	}
}

type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// authError turns a gateway failure into the message the user should see.
func authError(err error) error {
	var coded AuthCodeError
	if stderrors.As(err, &coded) {
		return errors.FromAuthCode(coded.AuthCode(), err)
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	logger.Error("Auth gateway failure: %v", err)
	return errors.Internal("Something went wrong, please try again", err)
}

func (uc *AuthUseCase) SignUp(ctx context.Context, input SignUpInput) (*entity.Session, error) {
	email := strings.TrimSpace(input.Email)

	uid, err := uc.firebaseAuth.CreateUser(ctx, email, input.Password, input.Name)
	if err != nil {
		return nil, authError(err)
	}

	profile := &entity.UserProfile{
		ID:    uid,
		Name:  input.Name,
		Email: email,
	}
	if _, err := uc.userRepo.Create(ctx, profile); err != nil {
		return nil, errors.Internal("Failed to create user profile", err)
	}

	session, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, email, input.Password)
	if err != nil {
		return nil, authError(err)
	}
	session.Profile = profile

	uc.publish(uid, true, input.Name)
	return session, nil
}

func (uc *AuthUseCase) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	session, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, strings.TrimSpace(email), password)
	if err != nil {
		logger.Debug("Sign in failed for %s: %v", email, err)
		return nil, authError(err)
	}

	profile, err := uc.userRepo.GetByID(ctx, session.UID)
	if err != nil && !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}
	session.Profile = profile

	uc.publish(session.UID, true, profileName(profile))
	return session, nil
}

// SignInWithProvider completes a federated sign-in and creates the user
// profile on first sign-in.
func (uc *AuthUseCase) SignInWithProvider(ctx context.Context, providerID, idToken string) (*entity.Session, error) {
	result, err := uc.firebaseAuth.SignInWithIdp(ctx, providerID, idToken)
	if err != nil {
		return nil, authError(err)
	}

	session := result.Session
	profile := &entity.UserProfile{
		ID:    session.UID,
		Name:  result.DisplayName,
		Email: result.Email,
	}

	created, err := uc.userRepo.Create(ctx, profile)
	if err != nil {
		return nil, errors.Internal("Could not authorize with provider", err)
	}
	if !created {
		if existing, err := uc.userRepo.GetByID(ctx, session.UID); err == nil {
			profile = existing
		}
	}
	session.Profile = profile

	uc.publish(session.UID, true, profile.Name)
	return session, nil
}

func (uc *AuthUseCase) ForgotPassword(ctx context.Context, email string) error {
	if err := uc.firebaseAuth.SendPasswordReset(ctx, strings.TrimSpace(email)); err != nil {
		logger.Warn("Could not send reset email: %v", err)
		return errors.BadRequest("Could not send reset email", err)
	}
	return nil
}

func (uc *AuthUseCase) RefreshToken(ctx context.Context, refreshToken string) (*entity.Session, error) {
	session, err := uc.firebaseAuth.RefreshIdToken(ctx, refreshToken)
	if err != nil {
		return nil, authError(err)
	}
	return session, nil
}

// SignOut revokes refresh tokens so every device has to sign in again.
func (uc *AuthUseCase) SignOut(ctx context.Context, uid string) error {
	if err := uc.firebaseAuth.RevokeSessions(ctx, uid); err != nil {
		return errors.Internal("Failed to sign out", err)
	}
	uc.publish(uid, false, "")
	return nil
}

func (uc *AuthUseCase) Me(ctx context.Context, uid string) (*entity.UserProfile, error) {
	return uc.userRepo.GetByID(ctx, uid)
}

func (uc *AuthUseCase) publish(uid string, signedIn bool, name string) {
	if uc.sessions == nil {
		return
	}
	uc.sessions.Publish(entity.SessionEvent{
		UID:      uid,
		SignedIn: signedIn,
		Name:     name,
		At:       time.Now().UTC(),
	})
}

func profileName(profile *entity.UserProfile) string {
	if profile == nil {
		return ""
	}
	return profile.Name
}
