// Package target tracks what the pinger has observed about the endpoint it keeps
// awake: its last known health and a smoothed probe latency.
package target
