// Package window decides whether a moment falls inside the daily active window
// during which keep-alive pings are allowed. Windows whose start is later than
// their end wrap past midnight.
package window
