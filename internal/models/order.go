package models

import (
	"strings"
	"time"
)

// Order status constants. Transitions are driven entirely by the billing
// platform; this service only records the external identifiers.
const (
	StatusPending    = "pending"
	StatusActive     = "active"
	StatusSuspended  = "suspended"
	StatusTerminated = "terminated"
)

// Order is a billing-platform order for a single virtual server. The
// external fields hold the panel server this order maps to.
type Order struct {
	ID               string
	UserID           int
	PackageID        string
	Status           string
	ExternalServerID *int
	ExternalData     []byte
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// User is the platform user an order belongs to.
type User struct {
	ID        int
	Email     string
	FirstName string
	LastName  string
}

// FullName joins first and last name the way the panel expects them.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// RemoteAccount links a platform user to their panel account. At most one
// exists per user; provisioning checks for it before creating a panel user.
type RemoteAccount struct {
	ID         string
	UserID     int
	ExternalID int
	Username   string
	Password   string
	Data       []byte
	CreatedAt  time.Time
}

// Resource limit defaults, applied when the package configuration omits a value.
const (
	DefaultIPv4     = 1
	DefaultStorage  = 20
	DefaultMemory   = 1024
	DefaultCPUCores = 5
)

// PackageConfig holds the admin-declared per-offering settings attached to a
// platform package. Nil limits fall back to the documented defaults.
type PackageConfig struct {
	PackageID         string
	RemotePackageID   int
	HypervisorGroupID int
	IPv4              *int
	Storage           *int
	Memory            *int
	CPUCores          *int
}

func (p *PackageConfig) IPv4OrDefault() int {
	return intOrDefault(p.IPv4, DefaultIPv4)
}

func (p *PackageConfig) StorageOrDefault() int {
	return intOrDefault(p.Storage, DefaultStorage)
}

func (p *PackageConfig) MemoryOrDefault() int {
	return intOrDefault(p.Memory, DefaultMemory)
}

func (p *PackageConfig) CPUCoresOrDefault() int {
	return intOrDefault(p.CPUCores, DefaultCPUCores)
}

func intOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// ProvisionLog is an audit entry for a lifecycle action on an order.
type ProvisionLog struct {
	ID        string
	OrderID   string
	Action    string
	Status    string
	Message   string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}
