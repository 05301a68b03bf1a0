package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const pushTimeout = time.Second

// State is one snapshot of the session gate. Checking stays true until the
// first state is pushed.
type State struct {
	Checking bool
	SignedIn bool
	UID      string
	Name     string
}

// Session tracks whether the user is signed in and fans every change out to
// subscribers in order. A subscriber that does not take a push within a
// second is dropped and its channel closed.
type Session struct {
	client *Client

	pushMu sync.Mutex
	mu     sync.RWMutex
	state  State
	subs   map[chan State]struct{}
}

func NewSession(c *Client) *Session {
	return &Session{
		client: c,
		state:  State{Checking: true},
		subs:   make(map[chan State]struct{}),
	}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Checking() bool {
	return s.State().Checking
}

func (s *Session) SignedIn() bool {
	return s.State().SignedIn
}

func (s *Session) Subscribe(ch chan State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[ch] = struct{}{}
}

// Unsubscribe closes ch. Unknown channels are ignored.
func (s *Session) Unsubscribe(ch chan State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[ch]; !ok {
		return
	}
	delete(s.subs, ch)
	close(ch)
}

// push updates the gate and fans st out to every subscriber. The fan-out does
// not follow any caller context; only pushTimeout bounds a subscriber.
func (s *Session) push(st State) {
	s.pushMu.Lock()
	defer s.pushMu.Unlock()

	s.mu.Lock()
	s.state = st
	subs := make([]chan State, 0, len(s.subs))
	for ch := range s.subs {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		if !deliver(ch, st) {
			s.Unsubscribe(ch)
		}
	}
}

// deliver reports false when ch did not take st in time. A channel closed by
// a concurrent Unsubscribe counts as delivered.
func deliver(ch chan State, st State) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = true
		}
	}()

	timer := time.NewTimer(pushTimeout)
	defer timer.Stop()

	select {
	case ch <- st:
		return true
	case <-timer.C:
		return false
	}
}

// Restore resolves the initial state from the client's stored token. An
// expired or missing token resolves to signed out without an error.
func (s *Session) Restore(ctx context.Context) error {
	if s.client.Token() == "" {
		s.push(State{})
		return nil
	}

	profile, err := s.client.Me(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		s.push(State{})
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			s.client.setSession(nil)
			return nil
		}
		return err
	}

	s.push(State{SignedIn: true, UID: profile.ID, Name: profile.Name})
	return nil
}

func (s *Session) SignIn(ctx context.Context, email, password string) error {
	session, err := s.client.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	st := State{SignedIn: true, UID: session.UID}
	if session.Profile != nil {
		st.Name = session.Profile.Name
	}
	s.push(st)
	return nil
}

// SignOut always leaves the gate signed out; the returned error only reports
// a failed server side revocation.
func (s *Session) SignOut(ctx context.Context) error {
	err := s.client.SignOut(ctx)
	s.push(State{})
	return err
}

type sessionMessage struct {
	Type    string `json:"type"`
	Session *struct {
		UID      string `json:"uid"`
		SignedIn bool   `json:"signedIn"`
		Name     string `json:"name"`
	} `json:"session"`
}

// Watch follows server pushed session changes until ctx is cancelled or the
// server closes the socket.
func (s *Session) Watch(ctx context.Context) error {
	wsURL, err := s.watchURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		var msg sessionMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "session" || msg.Session == nil {
			continue
		}
		s.push(State{SignedIn: msg.Session.SignedIn, UID: msg.Session.UID, Name: msg.Session.Name})
	}
}

func (s *Session) watchURL() (string, error) {
	u, err := url.Parse(s.client.baseURL + "/v1/session/ws")
	if err != nil {
		return "", err
	}
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)

	q := u.Query()
	q.Set("token", s.client.Token())
	u.RawQuery = q.Encode()
	return u.String(), nil
}
