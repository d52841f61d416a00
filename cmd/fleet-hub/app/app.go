package app

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fleetrack-io/fleetrack/cmd/fleet-hub/app/options"
	"github.com/fleetrack-io/fleetrack/pkg/log"
)

const (
	commandName = "fleet-hub"
	commandDesc = `The fleet hub ingests vehicle position reports over HTTP and MQTT,
derives motion state, simulates fleet movement, and fans the resulting
state out to WebSocket viewers and the MQTT fleet state topic.`
)

// NewCommand builds the fleet-hub root command.
func NewCommand() *cobra.Command {
	opts := options.NewHubOptions()
	var configFile string

	cmd := &cobra.Command{
		Use:          commandName,
		Short:        "Launch the fleet tracking hub",
		Long:         commandDesc,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, configFile, opts); err != nil {
				return err
			}
			if err := opts.Complete(); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			return run(opts)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to the configuration file.")
	opts.AddFlags(cmd.Flags())
	return cmd
}

// loadConfig layers the configuration: defaults, then the config file, then
// environment variables (FLEETHUB_*), then explicit flags.
func loadConfig(cmd *cobra.Command, configFile string, opts *options.HubOptions) error {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.SetEnvPrefix("FLEETHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	return v.Unmarshal(opts)
}

func run(opts *options.HubOptions) error {
	log.Init(opts.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := opts.Config()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	server, err := cfg.NewHubServer()
	if err != nil {
		return fmt.Errorf("failed to create hub server: %w", err)
	}

	return server.Run(ctx)
}
