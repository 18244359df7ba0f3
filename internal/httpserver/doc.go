// Package httpserver runs the optional status listener of the keep-alive
// process with validated addresses and graceful shutdown.
package httpserver
