package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	Version   string          `yaml:"version" json:"version"`
	Resources ResourcesConfig `yaml:"resources" json:"resources"`
	Policy    PolicyConfig    `yaml:"policy" json:"policy"`
	Timing    TimingConfig    `yaml:"timing" json:"timing"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
}

// ResourcesConfig names the hardware handles the tool operates on.
// Every entry is exclusively owned by one run; there is no inter-process
// arbitration, keeping other drivers away is a deployment concern.
type ResourcesConfig struct {
	GbeUio  string `yaml:"gbeUio" json:"gbeUio"`
	MdioUio string `yaml:"mdioUio" json:"mdioUio"`

	// MapLength is the size of each UIO register window mapping.
	MapLength int `yaml:"mapLength" json:"mapLength"`

	ResetGpioChip string `yaml:"resetGpioChip" json:"resetGpioChip"`
	ResetGpioLine uint32 `yaml:"resetGpioLine" json:"resetGpioLine"`

	MacEepromBus     string `yaml:"macEepromBus" json:"macEepromBus"`
	MacEepromAddress uint16 `yaml:"macEepromAddress" json:"macEepromAddress"`
	MacEepromOffset  uint8  `yaml:"macEepromOffset" json:"macEepromOffset"`
}

// PolicyConfig holds bring-up behavior that varies per board build.
type PolicyConfig struct {
	// ValidMacPrefix is matched case-sensitively against the formatted MAC.
	// Empty means no prefix enforcement (a warning is emitted instead).
	ValidMacPrefix string `yaml:"validMacPrefix" json:"validMacPrefix"`

	// MdioRegWrites is a whitespace-separated list of
	// <port>.<device>:<reg>=<value> tokens, reg and value in hex,
	// executed in order before the core leaves reset.
	MdioRegWrites string `yaml:"mdioRegWrites" json:"mdioRegWrites"`

	// PhyReadback enables a diagnostic read-and-log of each PHY register
	// before and after it is written. No effect on control flow.
	PhyReadback bool `yaml:"phyReadback" json:"phyReadback"`
}

// TimingConfig holds the settle and poll intervals. The defaults are
// empirically tuned to the board; shorter reset settles have been observed
// to leave the core in an inconsistent state.
type TimingConfig struct {
	ResetSettle      time.Duration `yaml:"resetSettle" json:"resetSettle"`
	CommitSettle     time.Duration `yaml:"commitSettle" json:"commitSettle"`
	EepromSettle     time.Duration `yaml:"eepromSettle" json:"eepromSettle"`
	MdioPollInterval time.Duration `yaml:"mdioPollInterval" json:"mdioPollInterval"`
	MdioPollLimit    int           `yaml:"mdioPollLimit" json:"mdioPollLimit"`
}

// UnmarshalYAML accepts Go duration strings ("1s", "10ms") for the settle
// and poll intervals, which yaml does not decode into time.Duration on its own.
func (t *TimingConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ResetSettle      string `yaml:"resetSettle"`
		CommitSettle     string `yaml:"commitSettle"`
		EepromSettle     string `yaml:"eepromSettle"`
		MdioPollInterval string `yaml:"mdioPollInterval"`
		MdioPollLimit    *int   `yaml:"mdioPollLimit"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	set := func(dst *time.Duration, field, s string) error {
		if s == "" {
			return nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("timing.%s: %w", field, err)
		}
		*dst = d
		return nil
	}

	if err := set(&t.ResetSettle, "resetSettle", raw.ResetSettle); err != nil {
		return err
	}
	if err := set(&t.CommitSettle, "commitSettle", raw.CommitSettle); err != nil {
		return err
	}
	if err := set(&t.EepromSettle, "eepromSettle", raw.EepromSettle); err != nil {
		return err
	}
	if err := set(&t.MdioPollInterval, "mdioPollInterval", raw.MdioPollInterval); err != nil {
		return err
	}
	if raw.MdioPollLimit != nil {
		t.MdioPollLimit = *raw.MdioPollLimit
	}
	return nil
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Output string `yaml:"output" json:"output"`
}

// DefaultConfig provides sensible defaults for a stock board build.
var DefaultConfig = Config{
	Version: "1.0",
	Resources: ResourcesConfig{
		GbeUio:           "/dev/uio0",
		MdioUio:          "/dev/uio1",
		MapLength:        0x1000,
		ResetGpioChip:    "/dev/gpiochip0",
		ResetGpioLine:    0,
		MacEepromBus:     "/dev/i2c-1",
		MacEepromAddress: 0x50,
		MacEepromOffset:  0xfa,
	},
	Policy: PolicyConfig{
		ValidMacPrefix: "",
		MdioRegWrites:  "",
		PhyReadback:    false,
	},
	Timing: TimingConfig{
		ResetSettle:      time.Second,
		CommitSettle:     time.Second,
		EepromSettle:     time.Second,
		MdioPollInterval: 10 * time.Millisecond,
		MdioPollLimit:    100,
	},
	Logging: LoggingConfig{
		Level:  "INFO",
		Output: "stdout",
	},
}

// LoadConfig loads the configuration from file and environment variables.
//  1. Path passed explicitly (--config flag), if non-empty
//  2. Path specified in XGINIT_CONFIG_PATH environment variable
//  3. ./xginit-config.yml
//  4. /etc/xginit/xginit-config.yml
//
// Applies environment variable overrides for logging, then validates the
// final configuration. Returns (config, configPath, error) - configPath
// indicates the source of the configuration.
func LoadConfig(explicitPath string) (*Config, string, error) {
	config := DefaultConfig

	path, err := loadFromFile(&config, explicitPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config file: %w", err)
	}

	if val := os.Getenv("XGINIT_LOG_LEVEL"); val != "" {
		config.Logging.Level = val
	}

	if e := config.Validate(); e != nil {
		return nil, "", fmt.Errorf("configuration validation failed: %w", e)
	}

	return &config, path, nil
}

// loadFromFile loads configuration from the first available YAML file.
// An explicitly requested file must exist; the search locations are optional
// and defaults are used when none is present.
func loadFromFile(config *Config, explicitPath string) (string, error) {
	if explicitPath != "" {
		if err := mergeFile(config, explicitPath); err != nil {
			return "", err
		}
		return explicitPath, nil
	}

	configPaths := []string{
		os.Getenv("XGINIT_CONFIG_PATH"),
		"./xginit-config.yml",
		"/etc/xginit/xginit-config.yml",
	}

	for _, path := range configPaths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		if err := mergeFile(config, path); err != nil {
			return "", err
		}
		return path, nil
	}

	return "built-in defaults (no config file found)", nil
}

func mergeFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// Validate performs validation of the configuration.
// Checks:
//   - Device paths are non-empty
//   - Register window length covers the core register map and is page-sane
//   - I2C device address is within the 7-bit addressable range
//   - Poll budget is positive and settle intervals non-negative
//   - Logging level parses
//
// Returns an error describing the first validation failure found.
func (c *Config) Validate() error {
	if c.Resources.GbeUio == "" {
		return fmt.Errorf("resources.gbeUio must be set")
	}
	if c.Resources.ResetGpioChip == "" {
		return fmt.Errorf("resources.resetGpioChip must be set")
	}
	if c.Resources.MacEepromBus == "" {
		return fmt.Errorf("resources.macEepromBus must be set")
	}
	if c.Policy.MdioRegWrites != "" && c.Resources.MdioUio == "" {
		return fmt.Errorf("resources.mdioUio must be set when policy.mdioRegWrites is configured")
	}

	if c.Resources.MapLength < 0x20 || c.Resources.MapLength > 1<<20 {
		return fmt.Errorf("invalid resources.mapLength: %#x", c.Resources.MapLength)
	}

	// 7-bit I2C addressing; 0x00-0x07 and 0x78-0x7f are reserved.
	if c.Resources.MacEepromAddress < 0x08 || c.Resources.MacEepromAddress > 0x77 {
		return fmt.Errorf("invalid resources.macEepromAddress: %#x", c.Resources.MacEepromAddress)
	}

	if c.Timing.MdioPollLimit < 1 {
		return fmt.Errorf("timing.mdioPollLimit must be at least 1, got %d", c.Timing.MdioPollLimit)
	}
	if c.Timing.ResetSettle < 0 || c.Timing.CommitSettle < 0 || c.Timing.EepromSettle < 0 || c.Timing.MdioPollInterval < 0 {
		return fmt.Errorf("timing intervals must be non-negative")
	}

	switch c.Logging.Level {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR",
		"debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	return nil
}
