package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const CONFILE = "config.yml"

// Duration wraps time.Duration so that human readable values like "250ms"
// can be used in the config file.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, got %v", value.Kind)
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

type SamplerConfig struct {
	Period        Duration `yaml:"Period"`
	SmoothingSize int      `yaml:"SmoothingSize"`
}

type DisplayConfig struct {
	ChannelCapacity int `yaml:"ChannelCapacity"`
	Columns         int `yaml:"Columns"`
}

type AlarmConfig struct {
	LowThreshold  int      `yaml:"LowThreshold"`
	HighThreshold int      `yaml:"HighThreshold"`
	Repetitions   int      `yaml:"Repetitions"`
	ToggleTime    Duration `yaml:"ToggleTime"`
	CooldownTime  Duration `yaml:"CooldownTime"`
}

type ComputeConfig struct {
	RangeStart int      `yaml:"RangeStart"`
	RangeEnd   int      `yaml:"RangeEnd"`
	YieldTime  Duration `yaml:"YieldTime"`
}

// TaskCfg holds the static scheduling attributes of one task. The table is
// fixed at startup; there is no runtime reconfiguration.
type TaskCfg struct {
	Priority int `yaml:"Priority"`
	Core     int `yaml:"Core"`
}

type LoggingConfig struct {
	Level  string `yaml:"Level"`
	Format string `yaml:"Format"`
	File   string `yaml:"File"`
}

// LcdConfig describes the GPIO wiring of the HD44780 display (4 bit mode).
type LcdConfig struct {
	RSPin     int   `yaml:"RSPin"`
	EnablePin int   `yaml:"EnablePin"`
	DataPins  []int `yaml:"DataPins"`
}

type HardwareConfig struct {
	SPIFrequency int       `yaml:"SPIFrequency"`
	AdcChannel   byte      `yaml:"AdcChannel"`
	AlarmPin     int       `yaml:"AlarmPin"`
	Lcd          LcdConfig `yaml:"Lcd"`
}

type Config struct {
	RealHW     bool   `yaml:"-"`
	Configfile string `yaml:"-"`

	Sampler  SamplerConfig      `yaml:"Sampler"`
	Display  DisplayConfig      `yaml:"Display"`
	Alarm    AlarmConfig        `yaml:"Alarm"`
	Compute  ComputeConfig      `yaml:"Compute"`
	Tasks    map[string]TaskCfg `yaml:"Tasks"`
	Logging  LoggingConfig      `yaml:"Logging"`
	Hardware HardwareConfig     `yaml:"Hardware"`
}

// ReadConfig reads and validates the config file. The returned config is
// fixed for the process lifetime.
func ReadConfig(cfile string, realhw bool) (*Config, error) {
	f, err := os.Open(cfile)
	if err != nil {
		return nil, fmt.Errorf("can't open config file %s: %w", cfile, err)
	}
	defer f.Close()

	var conf Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&conf); err != nil {
		return nil, fmt.Errorf("can't decode config file %s: %w", cfile, err)
	}
	conf.RealHW = realhw
	conf.Configfile = cfile

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", cfile, err)
	}
	return &conf, nil
}

func (c *Config) Validate() error {
	if c.Sampler.Period.Duration <= 0 {
		return fmt.Errorf("Sampler.Period must be positive, got %v", c.Sampler.Period)
	}
	if c.Sampler.SmoothingSize <= 0 {
		return fmt.Errorf("Sampler.SmoothingSize must be positive, got %d", c.Sampler.SmoothingSize)
	}
	if c.Display.ChannelCapacity <= 0 {
		return fmt.Errorf("Display.ChannelCapacity must be positive, got %d", c.Display.ChannelCapacity)
	}
	if c.Display.Columns <= 0 {
		return fmt.Errorf("Display.Columns must be positive, got %d", c.Display.Columns)
	}
	if c.Alarm.LowThreshold >= c.Alarm.HighThreshold {
		return fmt.Errorf("Alarm.LowThreshold (%d) must be below Alarm.HighThreshold (%d)",
			c.Alarm.LowThreshold, c.Alarm.HighThreshold)
	}
	if c.Alarm.Repetitions <= 0 {
		return fmt.Errorf("Alarm.Repetitions must be positive, got %d", c.Alarm.Repetitions)
	}
	if c.Alarm.ToggleTime.Duration <= 0 {
		return fmt.Errorf("Alarm.ToggleTime must be positive, got %v", c.Alarm.ToggleTime)
	}
	if c.Alarm.CooldownTime.Duration < 0 {
		return fmt.Errorf("Alarm.CooldownTime must not be negative, got %v", c.Alarm.CooldownTime)
	}
	if c.Compute.RangeStart < 2 {
		return fmt.Errorf("Compute.RangeStart must be at least 2, got %d", c.Compute.RangeStart)
	}
	if c.Compute.RangeEnd < c.Compute.RangeStart {
		return fmt.Errorf("Compute.RangeEnd (%d) must not be below Compute.RangeStart (%d)",
			c.Compute.RangeEnd, c.Compute.RangeStart)
	}
	for name, task := range c.Tasks {
		if task.Core < 0 {
			return fmt.Errorf("task %s: Core must not be negative, got %d", name, task.Core)
		}
		if task.Priority < 0 {
			return fmt.Errorf("task %s: Priority must not be negative, got %d", name, task.Priority)
		}
	}
	if c.RealHW {
		if len(c.Hardware.Lcd.DataPins) != 4 {
			return fmt.Errorf("Hardware.Lcd.DataPins needs exactly 4 pins for 4 bit mode, got %d",
				len(c.Hardware.Lcd.DataPins))
		}
		if c.Hardware.SPIFrequency <= 0 {
			return fmt.Errorf("Hardware.SPIFrequency must be positive, got %d", c.Hardware.SPIFrequency)
		}
	}
	return nil
}
