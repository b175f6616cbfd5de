package irc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry is the Prometheus registry the engine reports to.
	Registry = prometheus.NewRegistry()

	linesReceived = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "ircengine_lines_received_total",
		Help: "Lines read from the server",
	})

	linesSent = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "ircengine_lines_sent_total",
		Help: "Lines written to the server",
	})

	repliesRouted = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "ircengine_replies_total",
		Help: "Numeric replies by routing action",
	}, []string{"action"})

	commandsHandled = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "ircengine_commands_total",
		Help: "Named commands by verb; unrecognized verbs are counted as unknown",
	}, []string{"verb"})

	tapsStarted = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "ircengine_taps_started_total",
		Help: "Correlated command exchanges started",
	})

	tapsAbandoned = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "ircengine_taps_abandoned_total",
		Help: "Correlated exchanges retired by disconnect before completing",
	})

	bugReports = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "ircengine_bug_reports_total",
		Help: "Internal errors caught by the interactor",
	})
)
