package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cmlabs-hris/company-backend-go/internal/pkg/apperror"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type GoogleService interface {
	// GenerateState generates a random state string for OAuth2 flows.
	GenerateState(userAgent string) string
	// RedirectURL generates the OAuth2 redirect URL with a state.
	RedirectURL(state string) string
	// VerifyToken exchanges the code for an OAuth2 token.
	VerifyToken(ctx context.Context, code string) (*oauth2.Token, error)
	// VerifyUser fetches and verifies the Google user information.
	VerifyUser(ctx context.Context, token *oauth2.Token) (GoogleInformation, error)
}

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// maxUpstreamBody bounds how much of a failed upstream response is kept.
const maxUpstreamBody = 4 << 10

type GoogleServiceImpl struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogleService(clientID string, clientSecret string, redirectURL string, scopes []string) GoogleService {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}
	return &GoogleServiceImpl{config: config, userInfoURL: googleUserInfoURL}
}

type GoogleInformation struct {
	GoogleID      string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
}

// GenerateState generates a random state string for OAuth2 flows.
func (g *GoogleServiceImpl) GenerateState(userAgent string) string {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return ""
	}
	state := fmt.Sprintf("%s.%s", base64.URLEncoding.EncodeToString(b), userAgent)
	return base64.URLEncoding.EncodeToString([]byte(state))
}

func (g *GoogleServiceImpl) RedirectURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (g *GoogleServiceImpl) VerifyToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return nil, apperror.Upstream(retrieveErr.Response.StatusCode, string(retrieveErr.Body), "google token exchange failed").WithCause(err)
		}
		return nil, fmt.Errorf("google token exchange: %w", err)
	}
	return token, nil
}

func (g *GoogleServiceImpl) VerifyUser(ctx context.Context, token *oauth2.Token) (GoogleInformation, error) {
	var req GoogleInformation

	client := g.config.Client(ctx, token)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return GoogleInformation{}, fmt.Errorf("build userinfo request: %w", err)
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return GoogleInformation{}, fmt.Errorf("google userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
		return GoogleInformation{}, apperror.Upstream(resp.StatusCode, string(body), "google userinfo request failed")
	}

	if err := json.NewDecoder(resp.Body).Decode(&req); err != nil {
		return GoogleInformation{}, fmt.Errorf("decode google userinfo: %w", err)
	}

	return req, nil
}
