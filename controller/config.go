package controller

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("controller: invalid config")

// CameraConfig places the trailing camera relative to the body.
type CameraConfig struct {
	FollowDistance float64 `yaml:"follow_distance"`
	Height         float64 `yaml:"height"`
}

// Config is the per-body tuning. It is fixed for the controller's lifetime
// unless replaced wholesale between steps.
type Config struct {
	WalkSpeed float64 `yaml:"walk_speed"`
	RunSpeed  float64 `yaml:"run_speed"`
	JumpSpeed float64 `yaml:"jump_speed"`
	FlySpeed  float64 `yaml:"fly_speed"`
	Fly       bool    `yaml:"fly"`

	RideHeight       float64 `yaml:"ride_height"`
	MaxProbeDistance float64 `yaml:"max_probe_distance"`
	SpringStrength   float64 `yaml:"spring_strength"`
	SpringDamping    float64 `yaml:"spring_damping"`

	// MaxTurnRate bounds the yaw rate in radians per second.
	MaxTurnRate float64 `yaml:"max_turn_rate"`

	Camera CameraConfig `yaml:"camera"`
}

func DefaultConfig() Config {
	return Config{
		WalkSpeed:        6,
		RunSpeed:         10,
		JumpSpeed:        6,
		FlySpeed:         6,
		RideHeight:       1,
		MaxProbeDistance: 2,
		SpringStrength:   100,
		SpringDamping:    15,
		MaxTurnRate:      10,
		Camera: CameraConfig{
			FollowDistance: 20,
			Height:         10,
		},
	}
}

// Speed returns the horizontal target speed for the run modifier.
func (c Config) Speed(run bool) float64 {
	if run {
		return c.RunSpeed
	}
	return c.WalkSpeed
}

func (c Config) Validate() error {
	switch {
	case c.WalkSpeed <= 0:
		return fmt.Errorf("%w: walk_speed must be positive, got %g", ErrInvalidConfig, c.WalkSpeed)
	case c.RunSpeed <= 0:
		return fmt.Errorf("%w: run_speed must be positive, got %g", ErrInvalidConfig, c.RunSpeed)
	case c.JumpSpeed < 0:
		return fmt.Errorf("%w: jump_speed must not be negative, got %g", ErrInvalidConfig, c.JumpSpeed)
	case c.FlySpeed < 0:
		return fmt.Errorf("%w: fly_speed must not be negative, got %g", ErrInvalidConfig, c.FlySpeed)
	case c.RideHeight < 0:
		return fmt.Errorf("%w: ride_height must not be negative, got %g", ErrInvalidConfig, c.RideHeight)
	case c.MaxProbeDistance < c.RideHeight:
		return fmt.Errorf("%w: max_probe_distance %g is shorter than ride_height %g", ErrInvalidConfig, c.MaxProbeDistance, c.RideHeight)
	case c.SpringStrength < 0:
		return fmt.Errorf("%w: spring_strength must not be negative, got %g", ErrInvalidConfig, c.SpringStrength)
	case c.SpringDamping < 0:
		return fmt.Errorf("%w: spring_damping must not be negative, got %g", ErrInvalidConfig, c.SpringDamping)
	case c.MaxTurnRate < 0:
		return fmt.Errorf("%w: max_turn_rate must not be negative, got %g", ErrInvalidConfig, c.MaxTurnRate)
	case c.Camera.FollowDistance < 0:
		return fmt.Errorf("%w: camera follow_distance must not be negative, got %g", ErrInvalidConfig, c.Camera.FollowDistance)
	}
	return nil
}
