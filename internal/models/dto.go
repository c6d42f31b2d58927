package models

// ==================== Internal API DTOs ====================

// LifecycleRequest is the optional body of a lifecycle call from the billing
// platform. ExtraData is an open map reserved for platform extensions and is
// ignored unless a specific key is documented.
type LifecycleRequest struct {
	ExtraData map[string]interface{} `json:"extra_data,omitempty"`
}

// ProvisionResponse is returned after a successful provision.
type ProvisionResponse struct {
	OrderID          string `json:"order_id"`
	ExternalServerID int    `json:"external_server_id"`
	ExternalUserID   int    `json:"external_user_id"`
	Status           string `json:"status"`
	Message          string `json:"message"`
}

// ActionResponse is returned by suspend/unsuspend/terminate.
type ActionResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TestConnectionResponse is the banner shown in the admin UI after a
// connection test.
type TestConnectionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PanelLoginResponse carries the panel URL the browser should be redirected to.
type PanelLoginResponse struct {
	RedirectURL string `json:"redirect_url"`
}

// SaveSettingsRequest is the admin-submitted panel connection configuration.
type SaveSettingsRequest struct {
	Hostname string `json:"hostname" binding:"required"`
	APIKey   string `json:"api_key" binding:"required"`
}
