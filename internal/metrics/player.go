// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var playerActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "streamplayer_player_actions_total",
	Help: "Player button clicks by action and outcome",
}, []string{"action", "outcome"}) // outcome=ok|unknown

// RecordPlayerAction records a dispatched button click.
func RecordPlayerAction(action string, known bool) {
	outcome := "ok"
	if !known {
		// Unknown actions come from the URL; collapse them to bound cardinality.
		action = "unknown"
		outcome = "unknown"
	}
	playerActionsTotal.WithLabelValues(action, outcome).Inc()
}
