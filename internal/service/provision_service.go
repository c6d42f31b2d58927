package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"

	"github.com/WemXPro/service-virtfusion/internal/models"
	"github.com/WemXPro/service-virtfusion/internal/repository"
	"github.com/WemXPro/service-virtfusion/internal/virtfusion"
)

// ErrPanelLoginUnavailable is the only error the panel-login flow surfaces
// to end users. The underlying cause is logged, not shown.
var ErrPanelLoginUnavailable = errors.New("VirtFusion: unable to log in to the panel right now, please try again later")

// Gateway is the panel API surface the lifecycle adapter depends on.
type Gateway interface {
	TestConnection(ctx context.Context) error
	ListPackages(ctx context.Context) ([]virtfusion.Package, error)
	CreateUser(ctx context.Context, req virtfusion.CreateUserRequest) (*virtfusion.User, error)
	CreateServer(ctx context.Context, req virtfusion.CreateServerRequest) (*virtfusion.Server, error)
	SuspendServer(ctx context.Context, serverID int) error
	UnsuspendServer(ctx context.Context, serverID int) error
	DeleteServer(ctx context.Context, serverID int) error
	ServerLoginToken(ctx context.Context, userID, serverID int) (*virtfusion.LoginToken, error)
}

// OrderStore reads and updates the platform's order records.
type OrderStore interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)
	SetExternalServer(ctx context.Context, orderID string, externalID int, data []byte) error
	UpdateStatus(ctx context.Context, id, status string) error
}

// UserStore reads platform users.
type UserStore interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// AccountStore manages the user-to-panel-account linkage.
type AccountStore interface {
	GetByUserID(ctx context.Context, userID int) (*models.RemoteAccount, error)
	Create(ctx context.Context, acc *models.RemoteAccount) error
}

// PackageStore reads per-package panel configuration.
type PackageStore interface {
	GetConfig(ctx context.Context, packageID string) (*models.PackageConfig, error)
}

// Mailer delivers the credential notification. Failures are logged, never fatal.
type Mailer interface {
	SendPanelCredentials(ctx context.Context, to, panelURL, email, password string) error
}

// ActionLogger records lifecycle actions for the audit trail.
type ActionLogger interface {
	LogAction(ctx context.Context, orderID, action, status, message string) error
}

// ProvisionService is the order lifecycle adapter. Each method handles one
// platform-driven transition; none of them retries on its own.
type ProvisionService struct {
	gateway  Gateway
	orders   OrderStore
	users    UserStore
	accounts AccountStore
	packages PackageStore
	settings virtfusion.Settings
	mailer   Mailer
	logs     ActionLogger
}

// NewProvisionService creates a new provision service
func NewProvisionService(
	gateway Gateway,
	orders OrderStore,
	users UserStore,
	accounts AccountStore,
	packages PackageStore,
	settings virtfusion.Settings,
	mailer Mailer,
	logs ActionLogger,
) *ProvisionService {
	return &ProvisionService{
		gateway:  gateway,
		orders:   orders,
		users:    users,
		accounts: accounts,
		packages: packages,
		settings: settings,
		mailer:   mailer,
		logs:     logs,
	}
}

// Provision creates the panel account for the order's user if it does not
// exist yet, then builds the server and records its external id on the
// order. The server step is not idempotent; the platform calls this at most
// once per order.
func (s *ProvisionService) Provision(ctx context.Context, orderID string, extra map[string]interface{}) (*models.ProvisionResponse, error) {
	log.Printf("[Provision] Starting provisioning for order=%s", orderID)

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	user, err := s.users.GetByID(ctx, order.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	pkg, err := s.packages.GetConfig(ctx, order.PackageID)
	if err != nil {
		return nil, fmt.Errorf("get package config: %w", err)
	}

	account, err := s.ensureAccount(ctx, order, user)
	if err != nil {
		return nil, err
	}

	server, err := s.gateway.CreateServer(ctx, virtfusion.CreateServerRequest{
		PackageID:    pkg.RemotePackageID,
		UserID:       account.ExternalID,
		HypervisorID: pkg.HypervisorGroupID,
		IPv4:         pkg.IPv4OrDefault(),
		Storage:      pkg.StorageOrDefault(),
		Memory:       pkg.MemoryOrDefault(),
		CPUCores:     pkg.CPUCoresOrDefault(),
	})
	if err != nil {
		s.logAction(ctx, order.ID, "provision_failed", order.Status, err.Error())
		return nil, err
	}

	if err := s.orders.SetExternalServer(ctx, order.ID, server.ID, server.Raw); err != nil {
		return nil, fmt.Errorf("record external server: %w", err)
	}
	if err := s.orders.UpdateStatus(ctx, order.ID, models.StatusActive); err != nil {
		log.Printf("[Provision] Failed to update order status: %v", err)
	}

	s.logAction(ctx, order.ID, "provisioned", models.StatusActive,
		fmt.Sprintf("Server %d created for panel user %d", server.ID, account.ExternalID))

	log.Printf("[Provision] Order %s provisioned: server=%d", order.ID, server.ID)

	return &models.ProvisionResponse{
		OrderID:          order.ID,
		ExternalServerID: server.ID,
		ExternalUserID:   account.ExternalID,
		Status:           models.StatusActive,
		Message:          "Server created",
	}, nil
}

// ensureAccount returns the user's panel account, creating it on first
// provision. At most one panel account exists per platform user.
func (s *ProvisionService) ensureAccount(ctx context.Context, order *models.Order, user *models.User) (*models.RemoteAccount, error) {
	account, err := s.accounts.GetByUserID(ctx, user.ID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get remote account: %w", err)
	}

	password, err := generatePassword(16)
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}

	panelUser, err := s.gateway.CreateUser(ctx, virtfusion.CreateUserRequest{
		Name:          user.FullName(),
		Email:         user.Email,
		ExtRelationID: user.ID,
		SendMail:      true,
	})
	if err != nil {
		s.logAction(ctx, order.ID, "create_user_failed", order.Status, err.Error())
		return nil, &virtfusion.ProvisioningError{Err: err}
	}

	account = &models.RemoteAccount{
		UserID:     user.ID,
		ExternalID: panelUser.ID,
		Username:   user.Email,
		Password:   password,
		Data:       panelUser.Raw,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("persist remote account: %w", err)
	}

	s.sendCredentials(ctx, user, password)

	log.Printf("[Provision] Panel user %d created for platform user %d", panelUser.ID, user.ID)
	return account, nil
}

// sendCredentials emails the panel URL and credentials. Fire-and-forget:
// a delivery failure never fails the provision.
func (s *ProvisionService) sendCredentials(ctx context.Context, user *models.User, password string) {
	panelURL, err := s.settings.PanelHostname(ctx)
	if err != nil {
		log.Printf("[Provision] Skipping credential email, panel hostname unavailable: %v", err)
		return
	}

	if err := s.mailer.SendPanelCredentials(ctx, user.Email, panelURL, user.Email, password); err != nil {
		log.Printf("[Provision] Failed to send credential email to user %d: %v", user.ID, err)
	}
}

// Suspend suspends the order's panel server. No local state changes; the
// platform owns the order status.
func (s *ProvisionService) Suspend(ctx context.Context, orderID string, extra map[string]interface{}) (*models.ActionResponse, error) {
	return s.serverAction(ctx, orderID, "suspend", s.gateway.SuspendServer)
}

// Unsuspend lifts a suspension on the order's panel server.
func (s *ProvisionService) Unsuspend(ctx context.Context, orderID string, extra map[string]interface{}) (*models.ActionResponse, error) {
	return s.serverAction(ctx, orderID, "unsuspend", s.gateway.UnsuspendServer)
}

// Terminate schedules the panel server for deletion with the panel-side
// grace period. Terminal; the platform never calls anything after this.
func (s *ProvisionService) Terminate(ctx context.Context, orderID string, extra map[string]interface{}) (*models.ActionResponse, error) {
	return s.serverAction(ctx, orderID, "terminate", s.gateway.DeleteServer)
}

func (s *ProvisionService) serverAction(ctx context.Context, orderID, action string, call func(context.Context, int) error) (*models.ActionResponse, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.ExternalServerID == nil {
		return nil, fmt.Errorf("order %s has no panel server", orderID)
	}

	if err := call(ctx, *order.ExternalServerID); err != nil {
		s.logAction(ctx, order.ID, action+"_failed", order.Status, err.Error())
		return nil, err
	}

	s.logAction(ctx, order.ID, action, order.Status,
		fmt.Sprintf("Server %d: %s", *order.ExternalServerID, action))

	log.Printf("[Lifecycle] Order %s: %s on server %d", order.ID, action, *order.ExternalServerID)

	return &models.ActionResponse{
		OrderID: order.ID,
		Status:  order.Status,
		Message: fmt.Sprintf("Server %s requested", action),
	}, nil
}

// LoginToPanel requests a one-time SSO token for the order's server and
// returns the redirect URL. Any failure collapses into a generic retry-later
// error; the detail is only logged.
func (s *ProvisionService) LoginToPanel(ctx context.Context, orderID string) (*models.PanelLoginResponse, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		log.Printf("[PanelLogin] Order %s lookup failed: %v", orderID, err)
		return nil, ErrPanelLoginUnavailable
	}
	if order.ExternalServerID == nil {
		log.Printf("[PanelLogin] Order %s has no panel server", orderID)
		return nil, ErrPanelLoginUnavailable
	}

	account, err := s.accounts.GetByUserID(ctx, order.UserID)
	if err != nil {
		log.Printf("[PanelLogin] No panel account for user %d: %v", order.UserID, err)
		return nil, ErrPanelLoginUnavailable
	}

	token, err := s.gateway.ServerLoginToken(ctx, account.ExternalID, *order.ExternalServerID)
	if err != nil {
		log.Printf("[PanelLogin] Token request failed for order %s: %v", orderID, err)
		return nil, ErrPanelLoginUnavailable
	}

	return &models.PanelLoginResponse{RedirectURL: token.RedirectURL()}, nil
}

// TestConnection validates the stored panel settings and reports a banner
// for the admin UI instead of raising.
func (s *ProvisionService) TestConnection(ctx context.Context) *models.TestConnectionResponse {
	if err := s.gateway.TestConnection(ctx); err != nil {
		return &models.TestConnectionResponse{Success: false, Message: err.Error()}
	}
	return &models.TestConnectionResponse{Success: true, Message: "Successfully connected to the panel"}
}

// ListEnabledPackages returns the panel package catalog as an id to display
// name mapping, disabled entries dropped.
func (s *ProvisionService) ListEnabledPackages(ctx context.Context) (map[int]string, error) {
	packages, err := s.gateway.ListPackages(ctx)
	if err != nil {
		return nil, err
	}

	enabled := make(map[int]string)
	for _, pkg := range packages {
		if !pkg.Enabled {
			continue
		}
		enabled[pkg.ID] = pkg.Name
	}
	return enabled, nil
}

func (s *ProvisionService) logAction(ctx context.Context, orderID, action, status, message string) {
	if err := s.logs.LogAction(ctx, orderID, action, status, message); err != nil {
		log.Printf("[Lifecycle] Failed to log action %s for order %s: %v", action, orderID, err)
	}
}

const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generatePassword(length int) (string, error) {
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordCharset))))
		if err != nil {
			return "", err
		}
		buf[i] = passwordCharset[n.Int64()]
	}
	return string(buf), nil
}
