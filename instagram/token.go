package instagram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Long-lived user tokens last about 60 days; warn while there is
// still time to rotate.
const expiryWarningWindow = 7 * 24 * time.Hour

// Page is a Facebook page the token holder manages, with its own page
// access token.
type Page struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

// LongLivedToken is the result of exchanging a short-lived user token.
type LongLivedToken struct {
	AccessToken string
	ExpiresAt   time.Time
}

// TokenManager walks the Graph API token setup chain: short-lived
// user token -> long-lived user token -> page tokens -> IG user ID.
type TokenManager struct {
	appID     string
	appSecret string
	baseURL   string
	http      *http.Client
}

// NewTokenManager creates a manager for the given Meta app.
func NewTokenManager(appID, appSecret string) *TokenManager {
	return &TokenManager{
		appID:     appID,
		appSecret: appSecret,
		baseURL:   defaultGraphURL,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL overrides the Graph API endpoint, for tests.
func (m *TokenManager) WithBaseURL(base string) *TokenManager {
	m.baseURL = strings.TrimRight(base, "/")
	return m
}

// ExchangeLongLived trades a short-lived user token for a long-lived
// one (roughly 60 days).
func (m *TokenManager) ExchangeLongLived(ctx context.Context, shortToken string) (*LongLivedToken, error) {
	q := url.Values{}
	q.Set("grant_type", "fb_exchange_token")
	q.Set("client_id", m.appID)
	q.Set("client_secret", m.appSecret)
	q.Set("fb_exchange_token", shortToken)

	var resp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := m.call(ctx, "/oauth/access_token", q, &resp); err != nil {
		return nil, fmt.Errorf("instagram: exchange token: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("instagram: exchange token: empty token in response")
	}
	expiresIn := resp.ExpiresIn
	if expiresIn == 0 {
		expiresIn = int64((60 * 24 * time.Hour).Seconds())
	}
	return &LongLivedToken{
		AccessToken: resp.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(expiresIn) * time.Second),
	}, nil
}

// Pages lists the Facebook pages the token can manage, each with its
// page access token.
func (m *TokenManager) Pages(ctx context.Context, userToken string) ([]Page, error) {
	q := url.Values{}
	q.Set("access_token", userToken)

	var resp struct {
		Data []Page `json:"data"`
	}
	if err := m.call(ctx, "/me/accounts", q, &resp); err != nil {
		return nil, fmt.Errorf("instagram: list pages: %w", err)
	}
	return resp.Data, nil
}

// IGUserID resolves the Instagram business account connected to a
// Facebook page. Returns an error when the page has none.
func (m *TokenManager) IGUserID(ctx context.Context, pageID, pageToken string) (string, error) {
	q := url.Values{}
	q.Set("fields", "instagram_business_account")
	q.Set("access_token", pageToken)

	var resp struct {
		InstagramBusinessAccount struct {
			ID string `json:"id"`
		} `json:"instagram_business_account"`
	}
	if err := m.call(ctx, "/"+pageID, q, &resp); err != nil {
		return "", fmt.Errorf("instagram: resolve ig user: %w", err)
	}
	if resp.InstagramBusinessAccount.ID == "" {
		return "", fmt.Errorf("instagram: page %s has no connected instagram business account", pageID)
	}
	return resp.InstagramBusinessAccount.ID, nil
}

// ExpiresSoon reports whether a token expiry falls inside the warning
// window. A zero expiry means unknown and never warns.
func ExpiresSoon(expiresAt, now time.Time) bool {
	if expiresAt.IsZero() {
		return false
	}
	return expiresAt.Sub(now) < expiryWarningWindow
}

func (m *TokenManager) call(ctx context.Context, path string, params url.Values, out any) error {
	return graphCall(ctx, m.http, http.MethodGet, m.baseURL+path, params, out)
}
