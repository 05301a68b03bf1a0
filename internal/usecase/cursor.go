package usecase

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/repository"
)

// cursorToken is serialized into the opaque cursor handed to clients. Key
// binds it to the predicate that produced it.
type cursorToken struct {
	ID  string `json:"id"`
	Key string `json:"k"`
}

func filterKey(f repository.ListingFilter) string {
	if f.Field == "" {
		return "*"
	}
	return fmt.Sprintf("%s=%v", f.Field, f.Value)
}

func encodeCursor(id, key string) string {
	raw, _ := json.Marshal(cursorToken{ID: id, Key: key})
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(cursor string) (cursorToken, error) {
	var token cursorToken

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return token, fmt.Errorf("decode cursor: %w", err)
	}
	if err := json.Unmarshal(raw, &token); err != nil {
		return token, fmt.Errorf("decode cursor: %w", err)
	}
	if token.ID == "" {
		return token, fmt.Errorf("decode cursor: missing id")
	}
	return token, nil
}
