// Package identity is the client for the external identity provider. All
// credential handling lives on the provider side: this package only calls its
// REST endpoints and verifies the ID tokens it issues. No passwords are
// stored or hashed locally.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Session is the result of a successful credential sign-in.
type Session struct {
	UID          string
	IDToken      string
	RefreshToken string
	Email        string
}

// UserRecord is the provider's view of an account, used for the disabled and
// revoked-token checks during verification.
type UserRecord struct {
	UID         string
	Email       string
	DisplayName string
	Disabled    bool
	// ValidSince is the provider's tokens-valid-after time; ID tokens issued
	// before it count as revoked.
	ValidSince time.Time
}

// Provider is the thin interface over the identity provider's account API.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (string, error)
	GetUser(ctx context.Context, uid string) (*UserRecord, error)
}

// RESTProvider talks to an identity-toolkit style REST API.
type RESTProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewRESTProvider creates a provider client for the given API base URL and
// web API key.
func NewRESTProvider(baseURL, apiKey string) *RESTProvider {
	return &RESTProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

// SignIn verifies the credentials with the provider and returns the issued
// session. Provider failures come back as *ProviderError with the provider's
// code unchanged.
func (p *RESTProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}

	var resp signInResponse
	if err := p.post(ctx, "accounts:signInWithPassword", payload, &resp); err != nil {
		return nil, err
	}

	return &Session{
		UID:          resp.LocalID,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		Email:        resp.Email,
	}, nil
}

type signUpResponse struct {
	LocalID string `json:"localId"`
}

// SignUp creates the account with the provider and returns the new uid.
func (p *RESTProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	payload := map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}

	var resp signUpResponse
	if err := p.post(ctx, "accounts:signUp", payload, &resp); err != nil {
		return "", err
	}
	return resp.LocalID, nil
}

type lookupResponse struct {
	Users []struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		Disabled    bool   `json:"disabled"`
		ValidSince  string `json:"validSince"`
	} `json:"users"`
}

// GetUser looks up an account by uid.
func (p *RESTProvider) GetUser(ctx context.Context, uid string) (*UserRecord, error) {
	payload := map[string]interface{}{
		"localId": []string{uid},
	}

	var resp lookupResponse
	if err := p.post(ctx, "accounts:lookup", payload, &resp); err != nil {
		return nil, err
	}
	if len(resp.Users) == 0 {
		return nil, &ProviderError{Code: "USER_NOT_FOUND"}
	}

	u := resp.Users[0]
	record := &UserRecord{
		UID:         u.LocalID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Disabled:    u.Disabled,
	}
	if u.ValidSince != "" {
		if secs, err := strconv.ParseInt(u.ValidSince, 10, 64); err == nil {
			record.ValidSince = time.Unix(secs, 0)
		}
	}
	return record, nil
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *RESTProvider) post(ctx context.Context, endpoint string, payload, dest interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
	}

	url := fmt.Sprintf("%s/v1/%s?key=%s", p.baseURL, endpoint, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error.Message == "" {
			return &ProviderError{Code: fmt.Sprintf("PROVIDER_ERROR_%d", resp.StatusCode)}
		}
		return &ProviderError{Code: errResp.Error.Message}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}
