// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Default Handling Tests
// ==========================

func TestApplyDefaults_FillsOptionalFields(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "lusotown-workers", cfg.App.Name)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, 600, cfg.Matching.ProfileCacheTTL)
	assert.Equal(t, "configs/activity-registry.json", cfg.Registry.Path)
}

func TestApplyDefaults_RegistryPathPointsAtShippedManifest(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	root := findProjectRoot()
	require.NotEmpty(t, root)

	_, err := os.Stat(filepath.Join(root, cfg.Registry.Path))
	require.NoError(t, err)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Registry.Path = "configs/custom-registry.json"
	cfg.Camunda.MaxJobsActive = 3
	applyDefaults(cfg)

	assert.Equal(t, "configs/custom-registry.json", cfg.Registry.Path)
	assert.Equal(t, 3, cfg.Camunda.MaxJobsActive)
}
