package virtfusion

import (
	"context"
	"fmt"
	"net/http"
)

// CreateUserRequest is the body for creating a panel user. ExtRelationID
// links the panel account back to the platform user that owns it.
type CreateUserRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	ExtRelationID int    `json:"extRelationId"`
	SendMail      bool   `json:"sendMail"`
}

// User is a panel-side account. Raw carries the full data payload as the
// panel returned it.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`

	Raw []byte `json:"-"`
}

// CreateUser creates a panel account for a platform user.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	resp, err := c.Call(ctx, http.MethodPost, "/users", req)
	if err != nil {
		return nil, err
	}

	var user User
	if err := resp.DecodeData(&user); err != nil {
		return nil, err
	}
	user.Raw = resp.Data
	return &user, nil
}

// LoginToken is the panel's one-time server authentication token. The
// completion endpoint logs the browser straight into the server view.
type LoginToken struct {
	Authentication struct {
		TokenBase string `json:"token_base"`
		Endpoint  string `json:"endpoint_complete"`
	} `json:"authentication"`
}

// RedirectURL returns the panel URL the browser should be sent to.
func (t *LoginToken) RedirectURL() string {
	return t.Authentication.Endpoint
}

// ServerLoginToken requests a one-time SSO token for a panel user and one of
// their servers.
func (c *Client) ServerLoginToken(ctx context.Context, userID, serverID int) (*LoginToken, error) {
	endpoint := fmt.Sprintf("/users/%d/serverAuthenticationTokens/%d", userID, serverID)
	resp, err := c.Call(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var token LoginToken
	if err := resp.DecodeData(&token); err != nil {
		return nil, err
	}
	return &token, nil
}
