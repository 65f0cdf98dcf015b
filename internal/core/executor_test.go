package core

import (
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posdesk/printd/internal/registry"
)

type nopConn struct{}

func (nopConn) Read(b []byte) (int, error)         { return 0, io.EOF }
func (nopConn) Write(b []byte) (int, error)        { return len(b), nil }
func (nopConn) Close() error                       { return nil }
func (nopConn) LocalAddr() net.Addr                { return &net.TCPAddr{} }
func (nopConn) RemoteAddr() net.Addr               { return &net.TCPAddr{} }
func (nopConn) SetDeadline(t time.Time) error      { return nil }
func (nopConn) SetReadDeadline(t time.Time) error  { return nil }
func (nopConn) SetWriteDeadline(t time.Time) error { return nil }

func testPrinter() registry.Printer {
	return registry.Printer{
		ID:      "P1",
		Enabled: true,
		Connection: registry.Connection{
			IP:   "10.0.0.5",
			Port: 9100,
		},
	}
}

func newTestExecutor(sink Sink, online bool) (*Executor, *logtest.Hook, *bool) {
	logger, hook := logtest.NewNullLogger()
	dialed := false

	exec := NewExecutor(
		NewRenderer(nil, logger),
		func(w io.Writer) Sink { return sink },
		time.Second,
		logger,
	)
	exec.WithProbe(func(ip string, port int, timeout time.Duration) bool {
		return online
	})
	exec.WithDialer(func(addr string, timeout time.Duration) (net.Conn, error) {
		dialed = true
		return nopConn{}, nil
	})

	return exec, hook, &dialed
}

func lastOutcome(hook *logtest.Hook) Outcome {
	entry := hook.LastEntry()
	if entry == nil {
		return ""
	}
	outcome, _ := entry.Data["outcome"].(Outcome)
	return outcome
}

func TestExecutorTextJob(t *testing.T) {
	sink := &recordingSink{}
	exec, hook, dialed := newTestExecutor(sink, true)

	exec.Run(testPrinter(), &PrintPayload{Text: "Hello"})

	assert.True(t, *dialed)
	assert.Equal(t, []string{"Println", "Cut", "Execute"}, sink.names())
	assert.Equal(t, "Hello", sink.calls[0].args[0])
	assert.Equal(t, OutcomePrinted, lastOutcome(hook))
}

func TestExecutorPrinterOffline(t *testing.T) {
	sink := &recordingSink{}
	exec, hook, dialed := newTestExecutor(sink, false)

	exec.Run(testPrinter(), &PrintPayload{Text: "Hello"})

	assert.False(t, *dialed, "offline printers are never dialed")
	assert.Empty(t, sink.calls)
	assert.Equal(t, OutcomePrinterOffline, lastOutcome(hook))
}

func TestExecutorUnsupportedPayload(t *testing.T) {
	sink := &recordingSink{}
	exec, hook, dialed := newTestExecutor(sink, true)

	exec.Run(testPrinter(), &PrintPayload{})

	assert.False(t, *dialed)
	assert.Empty(t, sink.calls, "no sink primitive is emitted for an unsupported payload")
	assert.Equal(t, OutcomeUnsupportedPayload, lastOutcome(hook))
}

func TestExecutorTransmitFailure(t *testing.T) {
	sink := &recordingSink{execErr: errors.New("write: broken pipe")}
	exec, hook, _ := newTestExecutor(sink, true)

	exec.Run(testPrinter(), &PrintPayload{Text: "Hello"})

	assert.Equal(t, OutcomeTransmitFailed, lastOutcome(hook))
}

func TestExecutorDialFailure(t *testing.T) {
	sink := &recordingSink{}
	exec, hook, _ := newTestExecutor(sink, true)
	exec.WithDialer(func(addr string, timeout time.Duration) (net.Conn, error) {
		return nil, errors.New("connection refused")
	})

	exec.Run(testPrinter(), &PrintPayload{Text: "Hello"})

	assert.Empty(t, sink.calls)
	assert.Equal(t, OutcomeTransmitFailed, lastOutcome(hook))
}

func TestExecutorRecoversPanics(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	exec := NewExecutor(
		NewRenderer(nil, logger),
		func(w io.Writer) Sink { panic("bad sink") },
		time.Second,
		logger,
	)
	exec.WithProbe(func(ip string, port int, timeout time.Duration) bool { return true })
	exec.WithDialer(func(addr string, timeout time.Duration) (net.Conn, error) {
		return nopConn{}, nil
	})

	require.NotPanics(t, func() {
		exec.Run(testPrinter(), &PrintPayload{Text: "Hello"})
	})
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
