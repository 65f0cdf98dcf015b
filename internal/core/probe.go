package core

import (
	"net"
	"strconv"
	"time"
)

// Prober reports whether a device accepts TCP connections within timeout.
type Prober func(ip string, port int, timeout time.Duration) bool

// IsOnline attempts one TCP connect and releases the connection immediately.
// Refused connections, unreachable hosts and hangs past the timeout all
// resolve to false; it never returns an error.
func IsOnline(ip string, port int, timeout time.Duration) bool {
	addr := net.JoinHostPort(ip, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
