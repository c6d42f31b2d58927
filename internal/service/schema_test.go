package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WemXPro/service-virtfusion/internal/models"
	"github.com/WemXPro/service-virtfusion/internal/repository"
	"github.com/WemXPro/service-virtfusion/internal/virtfusion"
)

func TestConfigSchema(t *testing.T) {
	f := newFixture(t)

	fields := f.service.ConfigSchema()
	require.Len(t, fields, 2)

	assert.Equal(t, repository.SettingHostname, fields[0].Key)
	assert.Contains(t, fields[0].Rules, "no_trailing_slash")
	assert.Equal(t, repository.SettingAPIKey, fields[1].Key)
	assert.Equal(t, models.FieldTypePassword, fields[1].Type)
}

func TestPackageConfigSchemaPopulatesSelector(t *testing.T) {
	f := newFixture(t)
	f.gateway.packages = []virtfusion.Package{
		{ID: 2, Name: "Performance", Enabled: true},
		{ID: 1, Name: "Starter", Enabled: true},
		{ID: 3, Name: "Legacy", Enabled: false},
	}

	fields := f.service.PackageConfigSchema(context.Background(), "pkg-basic")
	require.NotEmpty(t, fields)

	selector := fields[0]
	assert.Equal(t, "virtfusion::package_id", selector.Key)
	assert.Equal(t, []models.FieldOption{
		{Value: 1, Label: "Starter"},
		{Value: 2, Label: "Performance"},
	}, selector.Options)
	// Current config values pre-fill the defaults.
	assert.Equal(t, 3, selector.Default)
}

func TestPackageConfigSchemaDefaultsForUnknownPackage(t *testing.T) {
	f := newFixture(t)

	fields := f.service.PackageConfigSchema(context.Background(), "pkg-unknown")

	byKey := map[string]models.FieldDescriptor{}
	for _, field := range fields {
		byKey[field.Key] = field
	}

	assert.Nil(t, byKey["virtfusion::package_id"].Default)
	assert.Equal(t, models.DefaultIPv4, byKey["virtfusion::ipv4"].Default)
	assert.Equal(t, models.DefaultStorage, byKey["virtfusion::storage"].Default)
	assert.Equal(t, models.DefaultMemory, byKey["virtfusion::memory"].Default)
	assert.Equal(t, models.DefaultCPUCores, byKey["virtfusion::cpu_cores"].Default)
}

func TestCheckoutSchemaAndButtonsAreEmpty(t *testing.T) {
	f := newFixture(t)

	assert.Empty(t, f.service.CheckoutConfigSchema())
	assert.Empty(t, f.service.ServiceButtons(&models.Order{ID: "ord-1"}))
}

func TestMetadata(t *testing.T) {
	f := newFixture(t)

	meta := f.service.Metadata()
	assert.Equal(t, "VirtFusion", meta.DisplayName)
	assert.NotEmpty(t, meta.Version)
	assert.NotEmpty(t, meta.MinPlatformVersion)
}
