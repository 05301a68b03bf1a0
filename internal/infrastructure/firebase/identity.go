package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"firebase.google.com/go/v4/auth"
)

// IdentityError is an error reported by the Identity Toolkit, e.g.
// "INVALID_LOGIN_CREDENTIALS" or "WEAK_PASSWORD : Password should be at least 6 characters".
type IdentityError struct {
	Status  int
	Message string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("identity toolkit: %d %s", e.Status, e.Message)
}

func (e *IdentityError) AuthCode() string {
	return e.Message
}

type identityErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (f *FirebaseAuthClient) post(ctx context.Context, endpoint string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	q := u.Query()
	q.Set("key", f.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity toolkit request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody identityErrorBody
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil || errBody.Error.Message == "" {
			return &IdentityError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return &IdentityError{Status: resp.StatusCode, Message: errBody.Error.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// adminError gives Admin SDK failures the same codes the REST API uses.
func adminError(err error) error {
	switch {
	case auth.IsEmailAlreadyExists(err):
		return &IdentityError{Status: http.StatusBadRequest, Message: "EMAIL_EXISTS"}
	case auth.IsUserNotFound(err):
		return &IdentityError{Status: http.StatusBadRequest, Message: "EMAIL_NOT_FOUND"}
	default:
		return err
	}
}

func parseExpiresIn(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
