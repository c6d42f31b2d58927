package service

import (
	"context"
	"errors"
	"log"
	"sort"

	"github.com/WemXPro/service-virtfusion/internal/models"
	"github.com/WemXPro/service-virtfusion/internal/repository"
)

// ServiceButton is a custom admin action button. This service declares none.
type ServiceButton struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Metadata returns the fixed service descriptor.
func (s *ProvisionService) Metadata() models.Metadata {
	return models.Metadata{
		DisplayName:        "VirtFusion",
		Author:             "WemX",
		Version:            "1.1.0",
		MinPlatformVersion: "1.8.0",
	}
}

// ConfigSchema declares the installation-wide settings: panel hostname and
// API key. Consumed by the platform's admin form renderer.
func (s *ProvisionService) ConfigSchema() []models.FieldDescriptor {
	return []models.FieldDescriptor{
		{
			Key:         repository.SettingHostname,
			Name:        "VirtFusion Hostname",
			Description: "Panel URL including the scheme, without a trailing slash, e.g. https://panel.example.com",
			Type:        models.FieldTypeText,
			Rules:       []string{"required", "url", "no_trailing_slash"},
		},
		{
			Key:         repository.SettingAPIKey,
			Name:        "VirtFusion API Key",
			Description: "API token generated in the panel with server and user management permissions",
			Type:        models.FieldTypePassword,
			Rules:       []string{"required"},
		},
	}
}

// PackageConfigSchema declares the per-package settings. The package
// selector is populated live from the panel catalog; when the panel is
// unreachable the selector is returned empty so the rest of the form still
// renders.
func (s *ProvisionService) PackageConfigSchema(ctx context.Context, packageID string) []models.FieldDescriptor {
	options := s.packageOptions(ctx)

	current, err := s.packages.GetConfig(ctx, packageID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("[Schema] Failed to load package config for %s: %v", packageID, err)
		}
		current = &models.PackageConfig{}
	}

	return []models.FieldDescriptor{
		{
			Key:         "virtfusion::package_id",
			Name:        "VirtFusion Package",
			Description: "Panel package used for servers of this offering",
			Type:        models.FieldTypeSelect,
			Default:     zeroToNil(current.RemotePackageID),
			Rules:       []string{"required"},
			Options:     options,
		},
		{
			Key:         "virtfusion::hypervisor_group_id",
			Name:        "Hypervisor Group ID",
			Description: "Panel hypervisor group servers are placed into",
			Type:        models.FieldTypeNumber,
			Default:     zeroToNil(current.HypervisorGroupID),
			Rules:       []string{"required", "integer"},
		},
		{
			Key:         "virtfusion::ipv4",
			Name:        "IPv4 Addresses",
			Description: "Number of IPv4 addresses assigned to each server",
			Type:        models.FieldTypeNumber,
			Default:     current.IPv4OrDefault(),
			Rules:       []string{"integer"},
		},
		{
			Key:         "virtfusion::storage",
			Name:        "Storage (GB)",
			Description: "Primary disk size in gigabytes",
			Type:        models.FieldTypeNumber,
			Default:     current.StorageOrDefault(),
			Rules:       []string{"integer"},
		},
		{
			Key:         "virtfusion::memory",
			Name:        "Memory (MB)",
			Description: "Memory in megabytes",
			Type:        models.FieldTypeNumber,
			Default:     current.MemoryOrDefault(),
			Rules:       []string{"integer"},
		},
		{
			Key:         "virtfusion::cpu_cores",
			Name:        "CPU Cores",
			Description: "Number of virtual CPU cores",
			Type:        models.FieldTypeNumber,
			Default:     current.CPUCoresOrDefault(),
			Rules:       []string{"integer"},
		},
	}
}

// CheckoutConfigSchema declares buyer-facing checkout fields. There are none.
func (s *ProvisionService) CheckoutConfigSchema() []models.FieldDescriptor {
	return []models.FieldDescriptor{}
}

// ServiceButtons declares custom admin buttons for an order. There are none.
func (s *ProvisionService) ServiceButtons(order *models.Order) []ServiceButton {
	return []ServiceButton{}
}

func (s *ProvisionService) packageOptions(ctx context.Context) []models.FieldOption {
	enabled, err := s.ListEnabledPackages(ctx)
	if err != nil {
		log.Printf("[Schema] Failed to load panel packages: %v", err)
		return []models.FieldOption{}
	}

	options := make([]models.FieldOption, 0, len(enabled))
	for id, name := range enabled {
		options = append(options, models.FieldOption{Value: id, Label: name})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Value < options[j].Value })
	return options
}

func zeroToNil(v int) interface{} {
	if v == 0 {
		return nil
	}
	return v
}
