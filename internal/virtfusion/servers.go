package virtfusion

import (
	"context"
	"fmt"
	"net/http"
)

// terminateDelay is the grace period, in seconds, the panel is told to wait
// before physically tearing a server down.
const terminateDelay = 5

// CreateServerRequest is the body for building a server. Field names match
// the panel API exactly.
type CreateServerRequest struct {
	PackageID    int `json:"packageId"`
	UserID       int `json:"userId"`
	HypervisorID int `json:"hypervisorId"`
	IPv4         int `json:"ipv4"`
	Storage      int `json:"storage"`
	Memory       int `json:"memory"`
	CPUCores     int `json:"cpuCores"`
}

// Server is a panel-side virtual server. Raw carries the full data payload
// as the panel returned it.
type Server struct {
	ID int `json:"id"`

	Raw []byte `json:"-"`
}

// CreateServer builds a server on the panel for an existing panel user.
func (c *Client) CreateServer(ctx context.Context, req CreateServerRequest) (*Server, error) {
	resp, err := c.Call(ctx, http.MethodPost, "/servers", req)
	if err != nil {
		return nil, err
	}

	var server Server
	if err := resp.DecodeData(&server); err != nil {
		return nil, err
	}
	server.Raw = resp.Data
	return &server, nil
}

// SuspendServer suspends a server by its panel id.
func (c *Client) SuspendServer(ctx context.Context, serverID int) error {
	_, err := c.Call(ctx, http.MethodPost, fmt.Sprintf("/servers/%d/suspend", serverID), nil)
	return err
}

// UnsuspendServer lifts a suspension by panel id.
func (c *Client) UnsuspendServer(ctx context.Context, serverID int) error {
	_, err := c.Call(ctx, http.MethodPost, fmt.Sprintf("/servers/%d/unsuspend", serverID), nil)
	return err
}

// DeleteServer schedules a server for deletion with the fixed grace period.
func (c *Client) DeleteServer(ctx context.Context, serverID int) error {
	_, err := c.Call(ctx, http.MethodDelete, fmt.Sprintf("/servers/%d?delay=%d", serverID, terminateDelay), nil)
	return err
}
