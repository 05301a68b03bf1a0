package usecase

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
)

type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) UploadImage(ctx context.Context, key, contentType string, size int64, file io.Reader) (string, error) {
	io.Copy(io.Discard, file)
	args := m.Called(ctx, key, contentType, size, file)
	return args.String(0), args.Error(1)
}

func (m *mockImageStore) Close() error {
	return nil
}

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (entity.GeoLocation, bool, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(entity.GeoLocation), args.Bool(1), args.Error(2)
}

type mockAuthClient struct {
	mock.Mock
}

func (m *mockAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	args := m.Called(ctx, email, password, displayName)
	return args.String(0), args.Error(1)
}

func (m *mockAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *mockAuthClient) SignInWithEmailPassword(ctx context.Context, email, password string) (*entity.Session, error) {
	args := m.Called(ctx, email, password)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (m *mockAuthClient) SignInWithIdp(ctx context.Context, providerID, idToken string) (*IdpSignIn, error) {
	args := m.Called(ctx, providerID, idToken)
	result, _ := args.Get(0).(*IdpSignIn)
	return result, args.Error(1)
}

func (m *mockAuthClient) SendPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAuthClient) RefreshIdToken(ctx context.Context, refreshToken string) (*entity.Session, error) {
	args := m.Called(ctx, refreshToken)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (m *mockAuthClient) UpdateDisplayName(ctx context.Context, uid, name string) error {
	return m.Called(ctx, uid, name).Error(0)
}

func (m *mockAuthClient) UpdateEmail(ctx context.Context, uid, email string) error {
	return m.Called(ctx, uid, email).Error(0)
}

func (m *mockAuthClient) RevokeSessions(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.SessionEvent
}

func (p *recordingPublisher) Publish(event entity.SessionEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []entity.SessionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.SessionEvent{}, p.events...)
}

type codedError struct {
	code string
}

func (e codedError) Error() string    { return e.code }
func (e codedError) AuthCode() string { return e.code }

func testImage(name string) entity.ListingImage {
	data := []byte("image-bytes-" + name)
	return entity.ListingImage{
		Filename:    name,
		ContentType: "image/jpeg",
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
