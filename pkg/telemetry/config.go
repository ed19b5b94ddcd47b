/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package telemetry

import (
	"errors"
	"time"

	"github.com/carverauto/devicemap/pkg/config"
)

var (
	// ErrEndpointRequired is returned when export is enabled without a collector endpoint.
	ErrEndpointRequired = errors.New("telemetry: OTel endpoint is required when enabled")

	errFailedToParseCACert = errors.New("telemetry: failed to parse CA certificate")
)

const (
	defaultServiceName    = "devicemap"
	defaultExportInterval = 15 * time.Second
)

// Config selects the OTLP/gRPC collector that traces, metrics and logs are
// exported to. Export is off unless Enabled is set.
type Config struct {
	Enabled        bool              `json:"enabled" yaml:"enabled"`
	Endpoint       string            `json:"endpoint" yaml:"endpoint"`
	Headers        map[string]string `json:"headers,omitempty" yaml:"headers,omitempty" sensitive:"true"`
	ServiceName    string            `json:"service_name" yaml:"service_name"`
	Insecure       bool              `json:"insecure" yaml:"insecure"`
	ExportInterval config.Duration   `json:"export_interval" yaml:"export_interval"`
	Logs           bool              `json:"logs" yaml:"logs"`
	TLS            *TLSConfig        `json:"tls,omitempty" yaml:"tls,omitempty"`
}

// TLSConfig holds client TLS material for the collector connection.
type TLSConfig struct {
	CertFile string `json:"cert_file" yaml:"cert_file"`
	KeyFile  string `json:"key_file" yaml:"key_file"`
	CAFile   string `json:"ca_file,omitempty" yaml:"ca_file,omitempty"`
}

// Validate implements config.Validator.
func (c *Config) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	if c.Endpoint == "" {
		return ErrEndpointRequired
	}

	return nil
}

func (c *Config) serviceName() string {
	if c.ServiceName == "" {
		return defaultServiceName
	}

	return c.ServiceName
}

func (c *Config) exportInterval() time.Duration {
	if c.ExportInterval <= 0 {
		return defaultExportInterval
	}

	return time.Duration(c.ExportInterval)
}
