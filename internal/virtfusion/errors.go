package virtfusion

import "fmt"

// ValidationError is raised when the panel rejects a request with a
// structured `errors` payload. The message carries the payload verbatim so
// the administrator sees exactly what the panel complained about.
type ValidationError struct {
	Errors string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("VirtFusion: %s", e.Errors)
}

// RemoteMessageError is raised when the panel reports a plain `message`
// field instead of structured errors.
type RemoteMessageError struct {
	Message string
}

func (e *RemoteMessageError) Error() string {
	return fmt.Sprintf("VirtFusion: %s", e.Message)
}

// AuthorizationError is raised on HTTP 401/403 responses without a panel
// error payload.
type AuthorizationError struct {
	StatusCode int
}

func (e *AuthorizationError) Error() string {
	return "VirtFusion: the API token lacks the required permissions"
}

// RemoteServerError is raised on HTTP 5xx responses without a panel error
// payload.
type RemoteServerError struct {
	StatusCode int
}

func (e *RemoteServerError) Error() string {
	return fmt.Sprintf("VirtFusion: panel returned server error %d", e.StatusCode)
}

// ConnectivityError covers everything else: unreachable host, malformed
// response, unexpected status.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return "VirtFusion: failed to connect to the panel, check the API details and hostname"
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// ProvisioningError wraps a failed panel user creation with the causes an
// administrator can actually act on.
type ProvisioningError struct {
	Err error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("VirtFusion: could not create the panel user, check for a duplicate email address or a name below the panel minimum length: %v", e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}
