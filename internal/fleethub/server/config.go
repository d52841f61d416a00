package server

import "github.com/fleetrack-io/fleetrack/pkg/options"

type Config struct {
	HttpOptions *options.HttpOptions
	MqttOptions *options.MqttOptions
}
