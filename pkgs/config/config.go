package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Server configures the listener ports (C4), the operator HTTP API port
// (C6), and logging verbosity (LogLevel, ignored when --debug is set).
type Server struct {
	LocosPort     uint16
	SensorsPort   uint16
	ActuatorsPort uint16
	HttpPort      uint16

	// HttpBaseURL is the controller address diagnostic CLI subcommands
	// (status/intent/control/switch/oracle) talk to.
	HttpBaseURL string

	LogLevel string
}

// Topology is a placeholder for a future per-deployment rail network
// override; the baseline topology is always compiled in regardless of
// whether this section is present.
type Topology struct {
	Name string
}

type Configuration struct {
	Server   Server
	Topology Topology
}

func NewConfig() (*Configuration, error) {
	config := Configuration{}

	// application configuration
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName(".loco")
	v.AddConfigPath("$HOME/")
	v.AddConfigPath(".")
	_ = v.SafeWriteConfig()

	v.SetDefault("server.locosport", 8004)
	v.SetDefault("server.sensorsport", 8005)
	v.SetDefault("server.actuatorsport", 8006)
	v.SetDefault("server.httpport", 8080)
	v.SetDefault("server.httpbaseurl", "http://127.0.0.1:8080")
	v.SetDefault("server.loglevel", "info")

	// contextual topology override (when the current working directory
	// contains a topology.json file describing a non-baseline deployment)
	tp := viper.New()
	tp.SetConfigType("json")
	tp.SetConfigName("topology")
	tp.AddConfigPath(".")
	tp.ReadInConfig()

	if err := v.ReadInConfig(); err != nil {
		return &Configuration{}, fmt.Errorf("cannot parse config: %s", err.Error())
	}
	if err := v.Unmarshal(&config); err != nil {
		return &config, fmt.Errorf("cannot parse config: %s", err.Error())
	}
	if err := tp.ReadInConfig(); err != nil {
		// make topology.json fully optional
		if !strings.Contains(err.Error(), "Not Found") {
			return &Configuration{}, fmt.Errorf("cannot parse config: %s", err.Error())
		}
	}
	if err := tp.Unmarshal(&config.Topology); err != nil {
		return &config, fmt.Errorf("cannot parse config: %s", err.Error())
	}

	return &config, nil
}
