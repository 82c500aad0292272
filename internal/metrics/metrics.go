package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	rentalCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mecarent",
			Name:      "rental_created_total",
			Help:      "Count of rentals created by access mode.",
		},
		[]string{"mode"},
	)

	rentalCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mecarent",
			Name:      "rental_completed_total",
			Help:      "Count of rentals that reached COMPLETED.",
		},
	)

	rentalCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mecarent",
			Name:      "rental_cancelled_total",
			Help:      "Count of rentals cancelled before activation.",
		},
	)

	lifecycleTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mecarent",
			Name:      "lifecycle_ticks_total",
			Help:      "Count of lifecycle evaluation passes.",
		},
	)

	lifecycleAnomalies = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mecarent",
			Name:      "lifecycle_anomalies_total",
			Help:      "Count of rentals found referencing a missing machine.",
		},
	)

	openRentals = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mecarent",
			Name:      "open_rentals",
			Help:      "Number of non-terminal rentals.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(rentalCreated, rentalCompleted, rentalCancelled,
			lifecycleTicks, lifecycleAnomalies, openRentals)
	})
}

func IncRentalCreated(mode string) {
	rentalCreated.WithLabelValues(mode).Inc()
}

func IncRentalCompleted() {
	rentalCompleted.Inc()
}

func IncRentalCancelled() {
	rentalCancelled.Inc()
}

func IncLifecycleTick() {
	lifecycleTicks.Inc()
}

func IncLifecycleAnomaly() {
	lifecycleAnomalies.Inc()
}

func SetOpenRentals(n int) {
	openRentals.Set(float64(n))
}
