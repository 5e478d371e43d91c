package config

import (
	"fmt"
	"net"

	"github.com/spf13/viper"
)

type ServeConfig struct {
	Address          string
	EnablePrometheus bool
	PrometheusAddr   string
}

func (c ServeConfig) Validate() error {
	if _, _, err := net.SplitHostPort(c.Address); err != nil {
		return fmt.Errorf("invalid serve address %q: %w", c.Address, err)
	}
	if c.EnablePrometheus {
		if _, _, err := net.SplitHostPort(c.PrometheusAddr); err != nil {
			return fmt.Errorf("invalid Prometheus address %q: %w", c.PrometheusAddr, err)
		}
	}
	return nil
}

func LoadServeConfigFromCLI() ServeConfig {
	return ServeConfig{
		Address:          viper.GetString("address"),
		EnablePrometheus: viper.GetBool("enable-prometheus"),
		PrometheusAddr:   viper.GetString("prometheus-addr"),
	}
}
