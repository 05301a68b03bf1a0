package usecase

import (
	"context"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
)

// FirebaseAuthClient is the slice of the auth gateway the use cases rely on.
type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	SignInWithEmailPassword(ctx context.Context, email, password string) (*entity.Session, error)
	SignInWithIdp(ctx context.Context, providerID, idToken string) (*IdpSignIn, error)
	SendPasswordReset(ctx context.Context, email string) error
	RefreshIdToken(ctx context.Context, refreshToken string) (*entity.Session, error)
	UpdateDisplayName(ctx context.Context, uid, name string) error
	UpdateEmail(ctx context.Context, uid, email string) error
	RevokeSessions(ctx context.Context, uid string) error
}

// IdpSignIn is the result of a federated sign-in.
type IdpSignIn struct {
	Session     *entity.Session
	DisplayName string
	Email       string
	IsNewUser   bool
}

// AuthCodeError is implemented by gateway errors that carry a provider error code.
type AuthCodeError interface {
	error
	AuthCode() string
}

// SessionPublisher pushes identity state changes to live sessions.
type SessionPublisher interface {
	Publish(event entity.SessionEvent)
}
