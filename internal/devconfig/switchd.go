package devconfig

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"
)

// ErrSwitchdTimeout is returned when switchd never reports ready.
var ErrSwitchdTimeout = errors.New("Timed out while waiting for switchd to be ready")

// PollSwitchd asks the switchd status port whether the device is ready:
// it sends '0' and expects '1' back.
func PollSwitchd(ctx context.Context, addr string) bool {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return false
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	if _, err := conn.Write([]byte("0")); err != nil {
		return false
	}
	buf := make([]byte, 1)
	if _, err := conn.Read(buf); err != nil {
		return false
	}
	return buf[0] == '1'
}

// WaitForSwitchd polls localhost:port every interval until switchd is
// ready or timeout elapses.
func WaitForSwitchd(ctx context.Context, port int, interval, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	addr := net.JoinHostPort("localhost", strconv.Itoa(port))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if PollSwitchd(ctx, addr) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ErrSwitchdTimeout
		case <-ticker.C:
		}
	}
}
