package fleethub

import (
	"fmt"
	"os"

	"github.com/fleetrack-io/fleetrack/internal/fleethub/core"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/store/duckdb"
	"github.com/fleetrack-io/fleetrack/internal/fleethub/store/memory"
	"github.com/fleetrack-io/fleetrack/pkg/log"
	"github.com/fleetrack-io/fleetrack/pkg/mqtt"
	"github.com/fleetrack-io/fleetrack/pkg/options"
)

// InitializeStore opens the configured record store. The returned closer is
// a no-op for stores with nothing to release.
func InitializeStore(opts *options.StoreOptions) (core.Repository, func() error, error) {
	switch opts.Driver {
	case options.StoreDriverDuckDB:
		store, err := duckdb.New(duckdb.Options{
			Path:      opts.Path,
			OpTimeout: opts.OpTimeout,
		})
		if err != nil {
			log.Error(err, "failed to open duckdb store", "path", opts.Path)
			return nil, nil, err
		}
		return store, store.Close, nil
	case options.StoreDriverMemory:
		return memory.New(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

// InitializeMQTTClient builds the ingress MQTT client.
func InitializeMQTTClient(opts *options.MqttOptions) (mqtt.Client, error) {
	cfg := opts.ToClientConfig()

	if cfg.ClientID == "" {
		hostname, _ := os.Hostname()
		cfg.ClientID = fmt.Sprintf("fleet-hub-%s", hostname)
	}

	mqttclient, err := mqtt.NewClient(cfg)
	if err != nil {
		log.Error(err, "failed to new mqtt client")
		return nil, err
	}

	return mqttclient, nil
}
