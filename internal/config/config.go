// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Assets   AssetsConfig   `yaml:"assets"`
	Camera   CameraConfig   `yaml:"camera"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// AssetsConfig holds model and texture search paths.
type AssetsConfig struct {
	Roots         []string `yaml:"roots"`          // directories searched for models and textures
	ScreenshotDir string   `yaml:"screenshot_dir"` // where F12 captures land
}

// CameraConfig holds orbit camera settings.
type CameraConfig struct {
	Distance        float32 `yaml:"distance"`
	DragSensitivity float32 `yaml:"drag_sensitivity"`
	ZoomSensitivity float32 `yaml:"zoom_sensitivity"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Assets: AssetsConfig{
			Roots:         []string{"assets"},
			ScreenshotDir: "screenshots",
		},
		Camera: CameraConfig{
			Distance:        4.0,
			DragSensitivity: 0.005,
			ZoomSensitivity: 0.1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
