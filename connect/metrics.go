package connect

import "github.com/prometheus/client_golang/prometheus"

var (
	connectAttempts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ethconnect_connect_attempts_total",
			Help: "Connection passes started, fallback passes included",
		},
	)
	connectFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ethconnect_fallbacks_total",
			Help: "Fallback passes started after a transport failure",
		},
	)
	connectFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ethconnect_connect_failures_total",
			Help: "Connections that ended without a bound session",
		},
	)
	gasPriceGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ethconnect_gas_price_wei",
			Help: "Last gas price reported by the node",
		},
	)
)

func init() {
	prometheus.MustRegister(connectAttempts, connectFallbacks, connectFailures, gasPriceGauge)
}
