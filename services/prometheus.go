package services

import "github.com/prometheus/client_golang/prometheus"

var (
	achievementsUnlockedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "achievements_unlocked_total",
			Help: "Total number of achievements granted",
		},
	)
	streaksBrokenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "streaks_broken_total",
			Help: "Total number of streaks zeroed by the inactivity sweep",
		},
	)
)

func init() {
	prometheus.MustRegister(achievementsUnlockedTotal)
	prometheus.MustRegister(streaksBrokenTotal)
}
