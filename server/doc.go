// Package server exposes a catalog over HTTP.
//
// Endpoints:
//
//	GET  /recommend    query parameters (category, property, interface, v, budget, currency, controller)
//	POST /recommend    JSON body {"cls", "properties", "interfaces", "v", "budget", "currency", "controller"}
//	GET  /parts/{key}  one part by key or label
//	GET  /status       catalog counts and the build it came from
//	GET  /health       liveness
//	GET  /metrics      Prometheus metrics
//
// The served catalog can be replaced at any time with SetCatalog; requests
// in flight keep the catalog they started with. A Watcher rebuilds the
// catalog when source files change.
package server
