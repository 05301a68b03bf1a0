package entity

import (
	"time"
)

// UserProfile is stored under the user's uid in the users collection.
type UserProfile struct {
	ID        string    `json:"id" firestore:"-"`
	Name      string    `json:"name" firestore:"name"`
	Email     string    `json:"email" firestore:"email"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp,serverTimestamp"`
}

// Session is what an authenticated client holds after signing in.
type Session struct {
	UID          string       `json:"uid"`
	IDToken      string       `json:"idToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
	Profile      *UserProfile `json:"profile,omitempty"`
}

// SessionEvent is pushed to every live session of a user when their identity
// state changes.
type SessionEvent struct {
	UID      string    `json:"uid"`
	SignedIn bool      `json:"signedIn"`
	Name     string    `json:"name,omitempty"`
	At       time.Time `json:"at"`
}
