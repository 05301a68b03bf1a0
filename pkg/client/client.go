// Package client is a Go SDK for the house marketplace API. Besides typed
// calls it carries the per-screen state a front end needs: the session gate,
// accumulating listing feeds and the profile's own listings.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// APIError is a non-2xx response. Redirect carries the server's navigation
// hint, "/sign-in" for missing sessions and "/" for denied ownership.
type APIError struct {
	Status   int
	Code     string
	Message  string
	Redirect string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code     string `json:"code"`
		Message  string `json:"message"`
		Redirect string `json:"redirect"`
	} `json:"error"`
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken starts the client with a previously issued ID token.
func WithToken(idToken string) Option {
	return func(c *Client) {
		c.idToken = idToken
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu           sync.RWMutex
	idToken      string
	refreshToken string
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.idToken
}

func (c *Client) setSession(s *AuthSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s == nil {
		c.idToken, c.refreshToken = "", ""
		return
	}
	c.idToken, c.refreshToken = s.IDToken, s.RefreshToken
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	if resp.StatusCode >= 300 || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode, Code: "UNKNOWN", Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Redirect = env.Error.Redirect
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func (c *Client) SignUp(ctx context.Context, name, email, password string) (*AuthSession, error) {
	var s AuthSession
	in := map[string]string{"name": name, "email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/sign-up", in, &s); err != nil {
		return nil, err
	}
	c.setSession(&s)
	return &s, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	var s AuthSession
	in := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/sign-in", in, &s); err != nil {
		return nil, err
	}
	c.setSession(&s)
	return &s, nil
}

// SignInWithProvider exchanges an identity provider token, Google when providerID is empty.
func (c *Client) SignInWithProvider(ctx context.Context, providerID, idToken string) (*AuthSession, error) {
	var s AuthSession
	in := map[string]string{"idToken": idToken, "providerId": providerID}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/oauth", in, &s); err != nil {
		return nil, err
	}
	c.setSession(&s)
	return &s, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/forgot-password", map[string]string{"email": email}, nil)
}

func (c *Client) Refresh(ctx context.Context) (*AuthSession, error) {
	c.mu.RLock()
	refreshToken := c.refreshToken
	c.mu.RUnlock()

	var s AuthSession
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/refresh", map[string]string{"refreshToken": refreshToken}, &s); err != nil {
		return nil, err
	}
	c.setSession(&s)
	return &s, nil
}

// SignOut revokes the session server side and forgets the local tokens even
// when the server call fails.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/sign-out", nil, nil)
	c.setSession(nil)
	return err
}

func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.doJSON(ctx, http.MethodGet, "/v1/auth/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile reports whether anything changed.
func (c *Client) UpdateProfile(ctx context.Context, name, email string) (*Profile, bool, error) {
	var out struct {
		Profile *Profile `json:"profile"`
		Changed bool     `json:"changed"`
	}
	in := map[string]string{"name": name, "email": email}
	if err := c.doJSON(ctx, http.MethodPut, "/v1/profile", in, &out); err != nil {
		return nil, false, err
	}
	return out.Profile, out.Changed, nil
}

func (c *Client) MyListings(ctx context.Context) ([]Listing, error) {
	var page Page
	if err := c.doJSON(ctx, http.MethodGet, "/v1/profile/listings", nil, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (c *Client) ContactLandlord(ctx context.Context, landlordID, listingName, message string) (*LandlordContact, error) {
	q := url.Values{}
	q.Set("listingName", listingName)
	q.Set("message", message)

	var contact LandlordContact
	path := "/v1/users/" + url.PathEscape(landlordID) + "/contact?" + q.Encode()
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (c *Client) Recommended(ctx context.Context) ([]Listing, error) {
	var listings []Listing
	if err := c.doJSON(ctx, http.MethodGet, "/v1/listings/recommended", nil, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *Client) Offers(ctx context.Context, cursor string) (*Page, error) {
	return c.page(ctx, "/v1/listings/offers", cursor)
}

func (c *Client) Category(ctx context.Context, listingType, cursor string) (*Page, error) {
	return c.page(ctx, "/v1/listings/category/"+url.PathEscape(listingType), cursor)
}

func (c *Client) page(ctx context.Context, path, cursor string) (*Page, error) {
	if cursor != "" {
		path += "?cursor=" + url.QueryEscape(cursor)
	}
	var page Page
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Listing(ctx context.Context, id string) (*ListingDetail, error) {
	var detail ListingDetail
	if err := c.doJSON(ctx, http.MethodGet, "/v1/listings/"+url.PathEscape(id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) CreateListing(ctx context.Context, in ListingInput) (*Listing, error) {
	return c.submitListing(ctx, http.MethodPost, "/v1/listings", in)
}

func (c *Client) UpdateListing(ctx context.Context, id string, in ListingInput) (*Listing, error) {
	return c.submitListing(ctx, http.MethodPut, "/v1/listings/"+url.PathEscape(id), in)
}

func (c *Client) DeleteListing(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/listings/"+url.PathEscape(id)+"?confirm=true", nil, nil)
}

func (c *Client) submitListing(ctx context.Context, method, path string, in ListingInput) (*Listing, error) {
	body, contentType, err := in.multipart()
	if err != nil {
		return nil, err
	}

	var listing Listing
	if err := c.do(ctx, method, path, body, contentType, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (in ListingInput) multipart() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := map[string]string{
		"type":         in.Type,
		"name":         in.Name,
		"bedrooms":     strconv.Itoa(in.Bedrooms),
		"bathrooms":    strconv.Itoa(in.Bathrooms),
		"parking":      strconv.FormatBool(in.Parking),
		"furnished":    strconv.FormatBool(in.Furnished),
		"location":     in.Location,
		"offer":        strconv.FormatBool(in.Offer),
		"regularPrice": strconv.FormatInt(in.RegularPrice, 10),
		"latitude":     strconv.FormatFloat(in.Latitude, 'f', -1, 64),
		"longitude":    strconv.FormatFloat(in.Longitude, 'f', -1, 64),
	}
	if in.DiscountedPrice > 0 {
		fields["discountedPrice"] = strconv.FormatInt(in.DiscountedPrice, 10)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	for _, img := range in.Images {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, img.Filename))
		h.Set("Content-Type", "application/octet-stream")
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
