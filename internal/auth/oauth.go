package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GitHubUser is the slice of GitHub's /user response the app cares about.
type GitHubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"` // empty when hidden in GitHub settings
	AvatarURL string `json:"avatar_url"`
}

// GitHubProvider wraps the OAuth2 Authorization Code flow against GitHub.
// The code-for-token exchange happens server-to-server with the client
// secret; the access token never reaches the browser.
type GitHubProvider struct {
	config *oauth2.Config
}

// NewGitHubProvider creates a provider for the registered OAuth app.
// callbackURL must match the app's configured callback exactly.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

// AuthURL returns the GitHub authorization page URL carrying the CSRF state.
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange trades the callback code for an access token and fetches the
// authenticated user's profile.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*GitHubUser, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.github.com/user", nil)
	if err != nil {
		return nil, fmt.Errorf("auth: building user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: fetching GitHub user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: GitHub user endpoint returned %d", resp.StatusCode)
	}

	var user GitHubUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("auth: decoding GitHub user: %w", err)
	}
	return &user, nil
}
