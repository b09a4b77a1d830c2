package vehicle

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the controller. All values are fixed after
// construction; Validate rejects configurations the per-step math cannot
// safely run with.
type Config struct {
	// Drive
	EnginePower   float64 `json:"engine_power" yaml:"engine_power"`
	MaxSteerAngle float64 `json:"max_steer_angle" yaml:"max_steer_angle"` // degrees

	// Suspension
	SuspensionRestLength float64 `json:"suspension_rest_length" yaml:"suspension_rest_length"`
	SpringStrength       float64 `json:"spring_strength" yaml:"spring_strength"`
	SpringDamper         float64 `json:"spring_damper" yaml:"spring_damper"`

	// Wheels
	FrontWheelRadius     float64 `json:"front_wheel_radius" yaml:"front_wheel_radius"`
	RearWheelRadius      float64 `json:"rear_wheel_radius" yaml:"rear_wheel_radius"`
	WheelSideFriction    float64 `json:"wheel_side_friction" yaml:"wheel_side_friction"`
	WheelRollingFriction float64 `json:"wheel_rolling_friction" yaml:"wheel_rolling_friction"`

	// Anti-roll stabilization
	StabilityStrength float64 `json:"stability_strength" yaml:"stability_strength"`
	MaxTiltAngle      float64 `json:"max_tilt_angle" yaml:"max_tilt_angle"` // degrees
	AngularDamping    float64 `json:"angular_damping" yaml:"angular_damping"`

	// Hill hold
	HillHoldStrength       float64 `json:"hill_hold_strength" yaml:"hill_hold_strength"`
	HillHoldAngleThreshold float64 `json:"hill_hold_angle_threshold" yaml:"hill_hold_angle_threshold"` // degrees
	HillHoldSpeedThreshold float64 `json:"hill_hold_speed_threshold" yaml:"hill_hold_speed_threshold"` // m/s

	// Wheel anchor geometry, relative to the center of mass. Forward is -Z.
	TrackWidth        float64 `json:"track_width" yaml:"track_width"`
	FrontAxleDistance float64 `json:"front_axle_distance" yaml:"front_axle_distance"`
	RearAxleDistance  float64 `json:"rear_axle_distance" yaml:"rear_axle_distance"`
	WheelMountHeight  float64 `json:"wheel_mount_height" yaml:"wheel_mount_height"`
}

// DefaultConfig returns tuning for a mid-size vehicle on a 1000 kg body.
func DefaultConfig() Config {
	return Config{
		EnginePower:            4500,
		MaxSteerAngle:          30,
		SuspensionRestLength:   0.5,
		SpringStrength:         12000,
		SpringDamper:           900,
		FrontWheelRadius:       0.33,
		RearWheelRadius:        0.33,
		WheelSideFriction:      120,
		WheelRollingFriction:   6,
		StabilityStrength:      60,
		MaxTiltAngle:           40,
		AngularDamping:         4,
		HillHoldStrength:       1.5,
		HillHoldAngleThreshold: 3,
		HillHoldSpeedThreshold: 2,
		TrackWidth:             1.6,
		FrontAxleDistance:      1.25,
		RearAxleDistance:       1.25,
		WheelMountHeight:       -0.2,
	}
}

func (c Config) Validate() error {
	if c.SuspensionRestLength <= 0 {
		return fmt.Errorf("vehicle: suspension rest length must be positive, got %v", c.SuspensionRestLength)
	}
	if c.FrontWheelRadius <= 0 || c.RearWheelRadius <= 0 {
		return fmt.Errorf("vehicle: wheel radii must be positive, got front=%v rear=%v",
			c.FrontWheelRadius, c.RearWheelRadius)
	}
	if c.TrackWidth <= 0 {
		return fmt.Errorf("vehicle: track width must be positive, got %v", c.TrackWidth)
	}
	if c.FrontAxleDistance <= 0 || c.RearAxleDistance <= 0 {
		return fmt.Errorf("vehicle: axle distances must be positive, got front=%v rear=%v",
			c.FrontAxleDistance, c.RearAxleDistance)
	}
	for name, v := range map[string]float64{
		"engine_power":              c.EnginePower,
		"max_steer_angle":           c.MaxSteerAngle,
		"spring_strength":           c.SpringStrength,
		"spring_damper":             c.SpringDamper,
		"wheel_side_friction":       c.WheelSideFriction,
		"wheel_rolling_friction":    c.WheelRollingFriction,
		"stability_strength":        c.StabilityStrength,
		"max_tilt_angle":            c.MaxTiltAngle,
		"angular_damping":           c.AngularDamping,
		"hill_hold_strength":        c.HillHoldStrength,
		"hill_hold_angle_threshold": c.HillHoldAngleThreshold,
		"hill_hold_speed_threshold": c.HillHoldSpeedThreshold,
	} {
		if v < 0 {
			return fmt.Errorf("vehicle: %s must not be negative, got %v", name, v)
		}
	}
	return nil
}

// LoadConfig reads a YAML tuning file over the defaults, so partial files
// only override the keys they name.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("vehicle: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("vehicle: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
