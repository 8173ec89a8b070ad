// SPDX-License-Identifier: MIT

// Package telemetry wires the ambient observability of the bellman tools:
// zerolog loggers built from configuration and Prometheus metrics fed by
// dp.Observer callbacks and equilibrium steps.
//
// Metrics live on a private registry and are exported as a text file after
// a run rather than served over HTTP.
package telemetry
