package options

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/fleetrack-io/fleetrack/internal/fleethub"
	"github.com/fleetrack-io/fleetrack/pkg/log"
	"github.com/fleetrack-io/fleetrack/pkg/options"
)

// HubOptions aggregates every flag group of the fleet-hub binary.
type HubOptions struct {
	HttpOptions  *options.HttpOptions  `json:"http" mapstructure:"http"`
	MqttOptions  *options.MqttOptions  `json:"mqtt" mapstructure:"mqtt"`
	StoreOptions *options.StoreOptions `json:"store" mapstructure:"store"`
	SimOptions   *options.SimOptions   `json:"sim" mapstructure:"sim"`
	Log          *log.Options          `json:"log" mapstructure:"log"`
}

func NewHubOptions() *HubOptions {
	return &HubOptions{
		HttpOptions:  options.NewHttpOptions(),
		MqttOptions:  options.NewMqttOptions(),
		StoreOptions: options.NewStoreOptions(),
		SimOptions:   options.NewSimOptions(),
		Log:          log.NewOptions(),
	}
}

// AddFlags registers every option group on fs.
func (o *HubOptions) AddFlags(fs *pflag.FlagSet) {
	o.HttpOptions.AddFlags(fs)
	o.MqttOptions.AddFlags(fs)
	o.StoreOptions.AddFlags(fs)
	o.SimOptions.AddFlags(fs)
	o.Log.AddFlags(fs)
}

func (o *HubOptions) Complete() error {
	return nil
}

func (o *HubOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.StoreOptions.Validate()...)
	errs = append(errs, o.SimOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return errors.Join(errs...)
}

func (o *HubOptions) Config() (*fleethub.Config, error) {
	return &fleethub.Config{
		HttpOptions:  o.HttpOptions,
		MqttOptions:  o.MqttOptions,
		StoreOptions: o.StoreOptions,
		SimOptions:   o.SimOptions,
	}, nil
}
