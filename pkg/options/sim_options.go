package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*SimOptions)(nil)

// SimOptions configures the background fleet simulation driver.
type SimOptions struct {
	// Enabled controls whether the simulator runs at all.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// TickPeriod is the interval between simulation ticks.
	TickPeriod time.Duration `json:"tick-period" mapstructure:"tick-period"`

	// TripThreshold is the number of consecutive backend failures after
	// which the simulator suspends itself.
	TripThreshold int `json:"trip-threshold" mapstructure:"trip-threshold"`

	// Cooldown is how long the simulator stays suspended before retrying.
	Cooldown time.Duration `json:"cooldown" mapstructure:"cooldown"`

	// LogWindow rate-limits failure logging during sustained outages.
	LogWindow time.Duration `json:"log-window" mapstructure:"log-window"`
}

// NewSimOptions creates a SimOptions object with default parameters.
func NewSimOptions() *SimOptions {
	return &SimOptions{
		Enabled:       true,
		TickPeriod:    3 * time.Second,
		TripThreshold: 5,
		Cooldown:      30 * time.Second,
		LogWindow:     30 * time.Second,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *SimOptions) Validate() []error {
	if o == nil || !o.Enabled {
		return nil
	}

	errors := []error{}

	if o.TickPeriod <= 0 {
		errors = append(errors, fmt.Errorf("sim tick-period must be positive, got %v", o.TickPeriod))
	}
	if o.TripThreshold < 1 {
		errors = append(errors, fmt.Errorf("sim trip-threshold must be at least 1, got %d", o.TripThreshold))
	}
	if o.Cooldown <= 0 {
		errors = append(errors, fmt.Errorf("sim cooldown must be positive, got %v", o.Cooldown))
	}

	return errors
}

// AddFlags adds flags related to the simulator to the specified FlagSet.
func (o *SimOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.BoolVar(&o.Enabled, "sim.enabled", o.Enabled, "Enable the background fleet simulator.")
	fs.DurationVar(&o.TickPeriod, "sim.tick-period", o.TickPeriod, "Interval between simulation ticks.")
	fs.IntVar(&o.TripThreshold, "sim.trip-threshold", o.TripThreshold, "Consecutive failures before the simulator suspends.")
	fs.DurationVar(&o.Cooldown, "sim.cooldown", o.Cooldown, "How long the simulator stays suspended before retrying.")
	fs.DurationVar(&o.LogWindow, "sim.log-window", o.LogWindow, "Minimum interval between repeated failure logs.")
}
