package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUser is the portion of Google's userinfo response we care about.
// Google returns a larger object — we only unmarshal the claims we need.
//
// Userinfo docs: https://developers.google.com/identity/openid-connect/openid-connect#obtaininguserprofileinformation
type GoogleUser struct {
	Sub     string `json:"sub"`     // Google's subject id — stable, never changes
	Email   string `json:"email"`   // Primary email for the Google account
	Name    string `json:"name"`    // Full display name
	Picture string `json:"picture"` // Profile picture URL
}

// GoogleProvider wraps golang.org/x/oauth2 for the Google Authorization Code flow.
//
// OAUTH 2.0 AUTHORIZATION CODE FLOW:
// 1. Your server redirects the user to Google's authorization endpoint,
//    with your ClientID and the requested scopes.
// 2. The user approves (or denies) the authorization request on Google.
// 3. Google redirects back to your CallbackURL with a short-lived "code".
// 4. Your server exchanges the code for an access token (server-to-server call).
// 5. Your server uses the access token to call the userinfo endpoint.
//
// The code-for-token exchange happens server-to-server using the ClientSecret,
// so the access token never touches the browser.
type GoogleProvider struct {
	config      *oauth2.Config
	userinfoURL string
}

const googleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// NewGoogleProvider creates a GoogleProvider with the given credentials.
//
// You get ClientID and ClientSecret from the Google Cloud console
// ("APIs & Services" → "Credentials" → "OAuth 2.0 Client IDs").
// callbackURL must match the authorized redirect URI you configured exactly.
//
// Scopes we request:
//   - "openid"  — OIDC flow, gives us the stable "sub" claim
//   - "email"   — the account's email address
//   - "profile" — display name and picture
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint, // pre-defined Google OAuth endpoints
		},
		userinfoURL: googleUserinfoURL,
	}
}

// AuthURL returns the URL to redirect the user to for authorization.
//
// The state is a random string the login handler generates and stores in a
// cookie before redirecting. The callback handler verifies the returned
// state matches the cookie — this is the flow's only CSRF protection.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange completes the OAuth flow: trades the authorization code for a
// Google user profile. This is the core of the callback handler.
//
// Steps:
//  1. Exchange the code for an OAuth access token (server-to-server)
//  2. Use the token to call the userinfo endpoint
//  3. Unmarshal the response into a GoogleUser struct
//
// Both network calls honour ctx — the caller passes a deadline so a slow
// identity provider cannot hold a request worker indefinitely. There is no
// retry: any failure is terminal for this login attempt.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleUser, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// oauth2.Config.Client returns an *http.Client that automatically adds
	// the "Authorization: Bearer <token>" header to every request.
	client := p.config.Client(ctx, oauthToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("auth: building userinfo request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: calling userinfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: userinfo endpoint returned status %d", resp.StatusCode)
	}

	var gUser GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&gUser); err != nil {
		return nil, fmt.Errorf("auth: decoding userinfo response: %w", err)
	}

	if gUser.Sub == "" {
		return nil, fmt.Errorf("auth: Google returned an invalid user (empty sub)")
	}
	if gUser.Email == "" {
		return nil, fmt.Errorf("auth: Google returned no email for sub %s", gUser.Sub)
	}

	return &gUser, nil
}
