package server

import (
	pkgmqtt "github.com/autopeer-io/sentinel/pkg/mqtt"
	"github.com/autopeer-io/sentinel/pkg/options"
)

type Config struct {
	HttpOptions *options.HttpOptions
	GrpcOptions *options.GrpcOptions
	MqttOptions *options.MqttOptions

	// MQTTClient is the ingress client. Nil when MQTT ingestion is disabled.
	MQTTClient pkgmqtt.Client
}
