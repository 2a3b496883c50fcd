package monitor

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the monitor configuration.
type Config struct {
	Serial SerialConfig `yaml:"serial"`
	Alarm  AlarmConfig  `yaml:"alarm"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
	Buffer   int    `yaml:"buffer"`
}

// AlarmConfig holds the Watch thresholds. A zero High/Low disables that
// bound unless the matching Enable flag is set.
type AlarmConfig struct {
	// StaleAfter raises an alarm when no line arrives for this long.
	StaleAfter time.Duration `yaml:"stale_after"`
	HighC      float64       `yaml:"high_c"`
	LowC       float64       `yaml:"low_c"`
	EnableHigh bool          `yaml:"enable_high"`
	EnableLow  bool          `yaml:"enable_low"`
	// ErrorGrowth raises an alarm when the error count rises by at least
	// this much between two readings; 0 disables it.
	ErrorGrowth int `yaml:"error_growth"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0",
			BaudRate: DefaultBaudRate,
			Buffer:   DefaultBufferSize,
		},
		Alarm: AlarmConfig{
			StaleAfter:  2 * time.Second, // sixteen missed 125 ms lines
			HighC:       55,
			LowC:        -5,
			ErrorGrowth: 4,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults fills fields a partial file left empty.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}
	if c.Serial.Buffer == 0 {
		c.Serial.Buffer = def.Serial.Buffer
	}
	if c.Alarm.StaleAfter == 0 {
		c.Alarm.StaleAfter = def.Alarm.StaleAfter
	}
}
