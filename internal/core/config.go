// Package core contains the business logic for orgcanvas: the hierarchy
// rule table, the pure tree mutation engine, breadcrumb normalization,
// board orchestration, draft application, and configuration.
package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/orgcanvas/pkg/models"
)

// validPrefixPattern matches uppercase alphanumeric prefixes between 1 and 10 characters.
var validPrefixPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// ConfigurationManager defines the interface for loading and validating
// configuration from the .orgcanvasconfig file.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// basePath is the root directory where .orgcanvasconfig resides.
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// configuration files relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// defaultGlobalConfig returns a GlobalConfig populated with sensible defaults.
func defaultGlobalConfig() *models.GlobalConfig {
	grid := DefaultGridLayout()
	return &models.GlobalConfig{
		DefaultKind:    models.BoardOrganisation,
		BoardIDPrefix:  "B",
		NodeIDPrefix:   "N",
		NodeIDPadWidth: 5,
		GridX:          grid.X,
		GridY:          grid.Y,
	}
}

// LoadGlobalConfig reads the .orgcanvasconfig file from the base path using
// Viper. If the file does not exist, sensible defaults are returned.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := defaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(".orgcanvasconfig")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	// Set Viper defaults so missing keys fall back gracefully.
	v.SetDefault("defaults.kind", string(cfg.DefaultKind))
	v.SetDefault("board_id.prefix", cfg.BoardIDPrefix)
	v.SetDefault("node_id.prefix", cfg.NodeIDPrefix)
	v.SetDefault("node_id.pad_width", cfg.NodeIDPadWidth)
	v.SetDefault("canvas.grid_x", cfg.GridX)
	v.SetDefault("canvas.grid_y", cfg.GridY)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file found, use defaults.
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .orgcanvasconfig: %w", err)
	}

	// Map nested YAML keys to flat GlobalConfig fields.
	cfg.DefaultKind = models.BoardKind(v.GetString("defaults.kind"))
	cfg.BoardIDPrefix = v.GetString("board_id.prefix")
	cfg.NodeIDPrefix = v.GetString("node_id.prefix")
	cfg.GridX = v.GetFloat64("canvas.grid_x")
	cfg.GridY = v.GetFloat64("canvas.grid_y")

	// Use IsSet to distinguish "not set" (use default 5) from "explicitly set to 0".
	if v.IsSet("node_id.pad_width") {
		cfg.NodeIDPadWidth = v.GetInt("node_id.pad_width")
	}

	return cfg, nil
}

// validBoardKinds is the set of allowed BoardKind values.
var validBoardKinds = map[models.BoardKind]bool{
	models.BoardOrganisation: true,
	models.BoardAutomation:   true,
}

// ValidateConfig checks the provided configuration for invalid values and
// returns a clear error message identifying every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if !validBoardKinds[cfg.DefaultKind] {
		errs = append(errs, fmt.Sprintf(
			"defaults.kind %q is invalid, must be one of: organisation, automation",
			cfg.DefaultKind,
		))
	}

	if cfg.BoardIDPrefix == "" {
		errs = append(errs, "board_id.prefix must not be empty")
	} else if !validPrefixPattern.MatchString(cfg.BoardIDPrefix) {
		errs = append(errs, fmt.Sprintf(
			"board_id.prefix %q is invalid, must match [A-Z0-9]{1,10}",
			cfg.BoardIDPrefix,
		))
	}

	if cfg.NodeIDPrefix == "" {
		errs = append(errs, "node_id.prefix must not be empty")
	} else if !validPrefixPattern.MatchString(cfg.NodeIDPrefix) {
		errs = append(errs, fmt.Sprintf(
			"node_id.prefix %q is invalid, must match [A-Z0-9]{1,10}",
			cfg.NodeIDPrefix,
		))
	}

	if cfg.NodeIDPadWidth < 0 || cfg.NodeIDPadWidth > 10 {
		errs = append(errs, fmt.Sprintf(
			"node_id.pad_width %d is invalid, must be between 0 and 10",
			cfg.NodeIDPadWidth,
		))
	}

	if cfg.GridX <= 0 || cfg.GridY <= 0 {
		errs = append(errs, fmt.Sprintf(
			"canvas grid offsets must be positive, got grid_x=%g grid_y=%g",
			cfg.GridX, cfg.GridY,
		))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
