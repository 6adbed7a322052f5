// Package oauth resolves third-party identity tokens against provider
// userinfo endpoints.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/config"
	apperrors "github.com/ArifBabayev05/Backlify-v2-sub001/pkg/errors"
)

// GoogleUserInfo is the subset of the userinfo response the server uses.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleClient fetches user identity from the Google userinfo endpoint.
type GoogleClient struct {
	userInfoURL string
	httpClient  *http.Client
}

// NewGoogleClient creates a new Google userinfo client
func NewGoogleClient(cfg config.OAuthConfig) *GoogleClient {
	return &GoogleClient{
		userInfoURL: cfg.GoogleUserInfoURL,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchUserInfo exchanges an access token for the Google profile. A non-200
// answer means the token is invalid or expired.
func (c *GoogleClient) FetchUserInfo(ctx context.Context, accessToken string) (*GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call userinfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read userinfo response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized,
			"Invalid Google token", fmt.Errorf("userinfo returned status %d", resp.StatusCode))
	}

	var info GoogleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	if info.Email == "" {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized,
			"Google token carries no email", nil)
	}

	return &info, nil
}
