package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*StoreOptions)(nil)

// Store driver names accepted by --store.driver.
const (
	StoreDriverDuckDB = "duckdb"
	StoreDriverMemory = "memory"
)

// StoreOptions configures the vehicle record store adapter.
type StoreOptions struct {
	// Driver selects the store adapter: "duckdb" or "memory".
	Driver string `json:"driver" mapstructure:"driver"`

	// Path is the database file for file-backed drivers. Empty means
	// in-process (":memory:" for duckdb).
	Path string `json:"path" mapstructure:"path"`

	// OpTimeout bounds every individual store call so a stalled backend
	// surfaces as an error instead of a hang.
	OpTimeout time.Duration `json:"op-timeout" mapstructure:"op-timeout"`
}

// NewStoreOptions creates a StoreOptions object with default parameters.
func NewStoreOptions() *StoreOptions {
	return &StoreOptions{
		Driver:    StoreDriverDuckDB,
		Path:      "fleetrack.db",
		OpTimeout: 5 * time.Second,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *StoreOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	switch o.Driver {
	case StoreDriverDuckDB, StoreDriverMemory:
	default:
		errors = append(errors, fmt.Errorf("unknown store driver %q", o.Driver))
	}

	if o.OpTimeout <= 0 {
		errors = append(errors, fmt.Errorf("store op-timeout must be positive, got %v", o.OpTimeout))
	}

	return errors
}

// AddFlags adds flags related to the record store to the specified FlagSet.
func (o *StoreOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Driver, "store.driver", o.Driver, "Record store driver ('duckdb' or 'memory').")
	fs.StringVar(&o.Path, "store.path", o.Path, "Database file path for file-backed drivers.")
	fs.DurationVar(&o.OpTimeout, "store.op-timeout", o.OpTimeout, "Timeout applied to each store operation.")
}
