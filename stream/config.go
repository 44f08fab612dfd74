package stream

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matt-g-everett/twallpaper/wallpaper"
	"gopkg.in/yaml.v2"
)

// Config is the top level YAML configuration.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientID"`
		QoS      byte   `yaml:"qos"`
		Topics   struct {
			Stream  string `yaml:"stream"`
			Control string `yaml:"control"`
			State   string `yaml:"state"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`

	Wallpaper wallpaper.Config `yaml:"wallpaper"`
	Animation AnimationConfig  `yaml:"animation"`

	Api struct {
		Listen      string `yaml:"listen"`
		PatternsDir string `yaml:"patternsDir"`
	} `yaml:"api"`

	Display struct {
		Framebuffer string `yaml:"framebuffer"`
		Terminal    bool   `yaml:"terminal"`
	} `yaml:"display"`
}

// AnimationConfig controls tick scheduling.
type AnimationConfig struct {
	FrameRate        float64       `yaml:"frameRate"`
	RetargetInterval time.Duration `yaml:"retargetInterval"`
	Crossfade        time.Duration `yaml:"crossfade"`
}

// DefaultConfig returns the configuration used for anything the YAML leaves out.
func DefaultConfig() Config {
	var c Config
	c.Mqtt.ClientID = "twallpaper"
	c.Mqtt.Topics.Stream = "home/wallpaper/stream"
	c.Mqtt.Topics.Control = "home/wallpaper/control"
	c.Mqtt.Topics.State = "home/wallpaper/state"
	c.Wallpaper = wallpaper.DefaultConfig()
	c.Animation = AnimationConfig{
		FrameRate:        30,
		RetargetInterval: 5 * time.Second,
		Crossfade:        time.Second,
	}
	c.Api.Listen = ":3000"
	c.Api.PatternsDir = "client/dist/patterns"
	return c
}

// ReadConfig decodes YAML from r on top of DefaultConfig.
func ReadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&c); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfig reads the YAML file at path.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return ReadConfig(f)
}

// Validate checks values that have no sensible fallback.
func (c Config) Validate() error {
	if c.Mqtt.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2 (got %d)", c.Mqtt.QoS)
	}
	if c.Animation.FrameRate < 0 {
		return fmt.Errorf("animation.frameRate must not be negative (got %v)", c.Animation.FrameRate)
	}
	if c.Animation.RetargetInterval < 0 || c.Animation.Crossfade < 0 {
		return fmt.Errorf("animation intervals must not be negative")
	}
	if err := c.Wallpaper.Validate(); err != nil {
		return fmt.Errorf("wallpaper: %w", err)
	}
	return nil
}
