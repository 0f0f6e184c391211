/*
Package monitoring provides Prometheus metrics for action execution.

# Overview

Every action engine owns a Metrics collector on its own registry, so
several engines in one process never collide on metric names.

# Metrics

- actionkit_actions_total{action,method,outcome}
- actionkit_action_duration_seconds{action,method}
- actionkit_action_errors_total{action,kind}
- actionkit_dispatch_total{method,status}
- actionkit_dispatch_in_flight
- actionkit_transfer_bytes_total{direction}

# Usage

	metrics := monitoring.NewMetrics()

	// Count dispatches in a transport chain
	h := transport.Chain(dispatch, monitoring.Middleware(metrics))

	// Time an action
	timer := monitoring.NewTimer(metrics, "GetUser", "GET")
	// ... execute ...
	timer.Stop(monitoring.OutcomeSucceeded)

# Metrics Endpoint

	http.Handle("/metrics", metrics.Handler())
*/
package monitoring
