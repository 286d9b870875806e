package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/vijaysolanki/secrets/internal/domain"
)

const defaultUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleConfig configures the Google sign-in flow.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string

	// Endpoint overrides the provider endpoints. Zero value means Google.
	// Set by tests to point at a fake provider.
	Endpoint oauth2.Endpoint

	// UserinfoURL overrides the profile endpoint. Empty means Google's.
	UserinfoURL string
}

// GoogleService runs the Google OAuth authorization-code flow and reconciles
// the resulting profile against the user directory.
type GoogleService struct {
	users       domain.UserRepository
	config      *oauth2.Config
	userinfoURL string
}

// NewGoogleService creates a new GoogleService.
func NewGoogleService(users domain.UserRepository, cfg GoogleConfig) *GoogleService {
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = google.Endpoint
	}
	userinfoURL := cfg.UserinfoURL
	if userinfoURL == "" {
		userinfoURL = defaultUserinfoURL
	}

	return &GoogleService{
		users: users,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"profile"},
			Endpoint:     endpoint,
		},
		userinfoURL: userinfoURL,
	}
}

// AuthCodeURL returns the provider URL to redirect the user agent to when
// initiating the flow. The state value is echoed back on the callback.
func (s *GoogleService) AuthCodeURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// Authenticate exchanges a callback authorization code for the user it
// identifies: code -> token -> profile -> directory record, creating the
// record on first login. Exchange failures, provider denial, and profiles
// without a stable subject id all surface as domain.ErrUnauthorized; no
// partial user is committed.
func (s *GoogleService) Authenticate(ctx context.Context, code string) (*domain.User, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange authorization code: %v", domain.ErrUnauthorized, err)
	}

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}
	if profile.Sub == "" {
		return nil, fmt.Errorf("%w: provider profile has no subject id", domain.ErrUnauthorized)
	}

	user, err := s.users.FindOrCreateByGoogleID(ctx, profile.Sub)
	if err != nil {
		return nil, fmt.Errorf("reconcile google user: %w", err)
	}

	return user, nil
}

type googleProfile struct {
	Sub  string `json:"sub"`
	Name string `json:"name"`
}

func (s *GoogleService) fetchProfile(ctx context.Context, token *oauth2.Token) (*googleProfile, error) {
	resp, err := s.config.Client(ctx, token).Get(s.userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch userinfo: %v", domain.ErrUnauthorized, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo returned status %d", domain.ErrUnauthorized, resp.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: decode userinfo: %v", domain.ErrUnauthorized, err)
	}

	return &profile, nil
}
