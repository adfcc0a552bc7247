package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// promTextfile collects OTel instruments into a private Prometheus registry
// and writes them in the text exposition format, for node_exporter's
// textfile collector. Short-lived CLI runs cannot be scraped.
type promTextfile struct {
	path     string
	registry *prometheus.Registry
	reader   sdkmetric.Reader
}

func newPromTextfile(path string) (*promTextfile, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &promTextfile{path: path, registry: registry, reader: exporter}, nil
}

// write replaces the textfile with the current metric values.
func (pt *promTextfile) write() error {
	err := prometheus.WriteToTextfile(pt.path, pt.registry)
	if err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
