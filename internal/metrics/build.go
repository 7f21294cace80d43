// SPDX-License-Identifier: MIT
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	buildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "streamplayer_build_info",
		Help: "Build information, value is always 1",
	}, []string{"version", "commit", "go_version"})

	configReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamplayer_config_reloads_total",
		Help: "Configuration reload attempts by outcome",
	}, []string{"outcome"}) // outcome=success|failure

	mediaAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streamplayer_media_available",
		Help: "1 if the configured media file was readable on the last check",
	})
)

// SetBuildInfo publishes the build information gauge.
func SetBuildInfo(version, commit, goVersion string) {
	buildInfo.Reset()
	buildInfo.WithLabelValues(version, commit, goVersion).Set(1)
}

// RecordConfigReload records the outcome of a configuration reload.
func RecordConfigReload(success bool) {
	if success {
		configReloadsTotal.WithLabelValues("success").Inc()
		return
	}
	configReloadsTotal.WithLabelValues("failure").Inc()
}

// SetMediaAvailable records the result of the last media readiness check.
func SetMediaAvailable(ok bool) {
	if ok {
		mediaAvailable.Set(1)
		return
	}
	mediaAvailable.Set(0)
}
