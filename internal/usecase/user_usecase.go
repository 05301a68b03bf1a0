package usecase

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
	"github.com/MichaelVenturi/House-marketplace/internal/domain/repository"
	"github.com/MichaelVenturi/House-marketplace/pkg/errors"
)

type UserUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
	sessions     SessionPublisher
}

func NewUserUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient, sessions SessionPublisher) *UserUseCase {
	return &UserUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
		sessions:     sessions,
	}
}

type UpdateProfileInput struct {
	Name  string
	Email string
}

// LandlordContact is what a visitor needs to message a listing owner.
type LandlordContact struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	MailTo string `json:"mailto"`
}

func (uc *UserUseCase) GetUserProfile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	profile, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile changes display name and email. A name change is written to
// the auth record and the profile document; listings keep the old name.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.UserProfile, bool, error) {
	profile, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	changesMade := false

	name := strings.TrimSpace(input.Name)
	if name != "" && name != profile.Name {
		if err := uc.firebaseAuth.UpdateDisplayName(ctx, userID, name); err != nil {
			return nil, false, errors.Internal("Could not update profile details", err)
		}
		if err := uc.userRepo.UpdateName(ctx, userID, name); err != nil {
			return nil, false, errors.Internal("Could not update profile details", err)
		}
		profile.Name = name
		changesMade = true
	}

	email := strings.TrimSpace(input.Email)
	if email != "" && email != profile.Email {
		if err := uc.firebaseAuth.UpdateEmail(ctx, userID, email); err != nil {
			return nil, false, authError(err)
		}
		if err := uc.userRepo.UpdateEmail(ctx, userID, email); err != nil {
			return nil, false, errors.Internal("Could not update profile details", err)
		}
		profile.Email = email
		changesMade = true
	}

	if changesMade && uc.sessions != nil {
		uc.sessions.Publish(entity.SessionEvent{
			UID:      userID,
			SignedIn: true,
			Name:     profile.Name,
			At:       time.Now().UTC(),
		})
	}

	return profile, changesMade, nil
}

func (uc *UserUseCase) ContactLandlord(ctx context.Context, landlordID, listingName, message string) (*LandlordContact, error) {
	landlord, err := uc.userRepo.GetByID(ctx, landlordID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.NotFound("Landlord", err)
		}
		return nil, errors.Internal("Could not get landlord data", err)
	}

	return &LandlordContact{
		ID:     landlordID,
		Name:   landlord.Name,
		Email:  landlord.Email,
		MailTo: mailtoLink(landlord.Email, listingName, message),
	}, nil
}

func mailtoLink(email, subject, body string) string {
	query := url.Values{}
	if subject != "" {
		query.Set("Subject", subject)
	}
	if body != "" {
		query.Set("body", body)
	}

	link := url.URL{Scheme: "mailto", Opaque: email}
	if len(query) > 0 {
		link.RawQuery = strings.ReplaceAll(query.Encode(), "+", "%20")
	}
	return link.String()
}
