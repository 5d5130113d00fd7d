package overlay

import (
	"errors"
	"fmt"
	"image"
	"os"

	"gopkg.in/yaml.v3"
)

// CameraConfig sets the projection used by the 3D layer.
type CameraConfig struct {
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
	FOVDegrees float32 `yaml:"fov_degrees"` // used until telemetry reports one
}

// Config describes the overlay window and its UI.
type Config struct {
	Title         string       `yaml:"title"`
	Width         int          `yaml:"width"`
	Height        int          `yaml:"height"`
	UIScale       float64      `yaml:"ui_scale"`
	TPS           int          `yaml:"tps"`
	Debug         bool         `yaml:"debug"`
	ShowFPS       bool         `yaml:"show_fps"`
	Transparent   bool         `yaml:"transparent"` // clear to transparent, for a window over the game
	Floating      bool         `yaml:"floating"`    // keep above other windows
	TooltipOffset image.Point  `yaml:"-"`
	Camera        CameraConfig `yaml:"camera"`
	ScreenshotDir string       `yaml:"screenshot_dir"`
}

// DefaultConfig returns the configuration used for fields a file omits.
func DefaultConfig() Config {
	return Config{
		Title:         "overlay",
		Width:         1280,
		Height:        720,
		UIScale:       1,
		TPS:           60,
		Transparent:   true,
		Floating:      true,
		TooltipOffset: image.Pt(14, 18),
		Camera: CameraConfig{
			Near:       0.1,
			Far:        1000,
			FOVDegrees: 70,
		},
		ScreenshotDir: "screenshots",
	}
}

// yamlPoint reads an image.Point written as [x, y].
type yamlPoint image.Point

func (p *yamlPoint) UnmarshalYAML(value *yaml.Node) error {
	var xy []int
	if err := value.Decode(&xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("expected [x, y], got %d values", len(xy))
	}
	*p = yamlPoint{X: xy[0], Y: xy[1]}
	return nil
}

// configFile mirrors Config for fields that need custom decoding.
type configFile struct {
	Config        `yaml:",inline"`
	TooltipOffset *yamlPoint `yaml:"tooltip_offset"`
}

// LoadConfig parses YAML on top of DefaultConfig and validates the result.
func LoadConfig(data []byte) (Config, error) {
	f := configFile{Config: DefaultConfig()}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Config{}, fmt.Errorf("overlay: parse config: %w", err)
	}
	cfg := f.Config
	if f.TooltipOffset != nil {
		cfg.TooltipOffset = image.Point(*f.TooltipOffset)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses the YAML file at path.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("overlay: read config: %w", err)
	}
	return LoadConfig(data)
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height))
	}
	if c.UIScale <= 0 {
		errs = append(errs, fmt.Errorf("ui_scale %v must be positive", c.UIScale))
	}
	if c.TPS <= 0 {
		errs = append(errs, fmt.Errorf("tps %d must be positive", c.TPS))
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		errs = append(errs, fmt.Errorf("camera near %v must be positive and below far %v", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera fov_degrees %v must be in (0, 180)", c.Camera.FOVDegrees))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("overlay: invalid config: %w", err)
	}
	return nil
}
