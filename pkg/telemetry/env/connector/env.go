// Package connector sets up Connectors for operator console
// processes.
package connector

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/robotalks/rover.go/pkg/telemetry"
	"github.com/robotalks/rover.go/pkg/telemetry/comm/mqtt"
)

// Config provides common options to setup Connectors.
type Config struct {
	Ref telemetry.ControllerRef

	// RegistryURL specifies the URL of controller registry.
	// e.g. mqtt://host:port/topic-prefix
	RegistryURL string
}

var defaultConfig = Config{
	RegistryURL: "mqtt://localhost:1883/rover/",
}

func init() {
	if val := os.Getenv("ROVER_TYPE"); val != "" {
		defaultConfig.Ref.Type = val
	}
	if val := os.Getenv("ROVER_ID"); val != "" {
		defaultConfig.Ref.ID = val
	}
	if val := os.Getenv("ROVER_REGISTRY_URL"); val != "" {
		defaultConfig.RegistryURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Ref.Type, "rover-type", defaultConfig.Ref.Type, "Rover type to connect.")
	flag.StringVar(&defaultConfig.Ref.ID, "rover-id", defaultConfig.Ref.ID, "Rover ID to connect.")
	flag.StringVar(&defaultConfig.RegistryURL, "rover-reg", defaultConfig.RegistryURL, "Rover Registry URL.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewConnector creates a Connector using current config.
func (c *Config) NewConnector() (telemetry.Connector, error) {
	parsedURL, err := url.Parse(c.RegistryURL)
	if err != nil {
		return nil, fmt.Errorf("invalid registry URL: %v", err)
	}
	switch parsedURL.Scheme {
	case "mqtt":
		return mqtt.NewConnector(c.RegistryURL)
	default:
		return nil, fmt.Errorf("unknown registry URL scheme: %q", parsedURL.Scheme)
	}
}

// MustNewConnector creates a Connector and fails on error.
func (c *Config) MustNewConnector() telemetry.Connector {
	conn, err := c.NewConnector()
	if err != nil {
		log.Fatalln(err)
	}
	return conn
}

// Connect directly connects to a rover controller.
func (c *Config) Connect() (telemetry.ControllerConn, error) {
	if !c.Ref.IsValid() {
		return nil, fmt.Errorf("rover type and id must be specified")
	}
	connector, err := c.NewConnector()
	if err != nil {
		return nil, err
	}
	return connector.Connect(context.TODO(), c.Ref)
}

// MustConnect connects to a rover controller or fails.
func (c *Config) MustConnect() telemetry.ControllerConn {
	conn, err := c.Connect()
	if err != nil {
		log.Fatalln(err)
	}
	return conn
}
