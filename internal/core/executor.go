package core

import (
	"io"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/posdesk/printd/internal/registry"
)

type Outcome string

const (
	OutcomePrinted            Outcome = "printed"
	OutcomePrinterOffline     Outcome = "printer_offline"
	OutcomeUnsupportedPayload Outcome = "unsupported_payload"
	OutcomeTransmitFailed     Outcome = "transmit_failed"
)

// SinkFactory builds a device sink over an open connection.
type SinkFactory func(w io.Writer) Sink

type Dialer func(addr string, timeout time.Duration) (net.Conn, error)

// Executor owns the lifecycle of one print attempt. Run is invoked exactly
// once per accepted request, after the HTTP response has been sent; outcomes
// are reported through logs only and nothing propagates back to the caller.
type Executor struct {
	renderer     *Renderer
	probe        Prober
	dial         Dialer
	newSink      SinkFactory
	probeTimeout time.Duration
	log          logrus.FieldLogger
}

func NewExecutor(renderer *Renderer, newSink SinkFactory, probeTimeout time.Duration, log logrus.FieldLogger) *Executor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Executor{
		renderer: renderer,
		probe:    IsOnline,
		dial: func(addr string, timeout time.Duration) (net.Conn, error) {
			return net.DialTimeout("tcp", addr, timeout)
		},
		newSink:      newSink,
		probeTimeout: probeTimeout,
		log:          log,
	}
}

// WithProbe and WithDialer replace the network edges, used by tests.
func (e *Executor) WithProbe(p Prober) *Executor {
	e.probe = p
	return e
}

func (e *Executor) WithDialer(d Dialer) *Executor {
	e.dial = d
	return e
}

func (e *Executor) Run(printer registry.Printer, payload *PrintPayload) {
	jobID := uuid.NewString()
	start := time.Now()
	addr := net.JoinHostPort(printer.Connection.IP, strconv.Itoa(printer.Connection.Port))
	log := e.log.WithFields(logrus.Fields{
		"job_id":  jobID,
		"printer": printer.ID,
		"address": addr,
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("outcome", OutcomeTransmitFailed).
				WithField("panic", r).Error("print job panicked")
		}
	}()

	if !e.probe(printer.Connection.IP, printer.Connection.Port, e.probeTimeout) {
		log.WithField("outcome", OutcomePrinterOffline).Warn("printer unreachable, job dropped")
		return
	}

	kind := payload.Kind()
	if kind == KindUnknown {
		log.WithField("outcome", OutcomeUnsupportedPayload).Warn("payload is neither invoice nor text")
		return
	}

	conn, err := e.dial(addr, e.probeTimeout)
	if err != nil {
		log.WithField("outcome", OutcomeTransmitFailed).WithError(err).Error("failed to connect to printer")
		return
	}
	defer conn.Close()

	sink := e.newSink(conn)

	switch kind {
	case KindInvoice:
		err = e.renderer.RenderInvoice(sink, payload)
	case KindText:
		err = e.renderer.RenderText(sink, payload.Text)
	}

	if err != nil {
		log.WithField("outcome", OutcomeTransmitFailed).WithError(err).Error("print job failed")
		return
	}

	log.WithFields(logrus.Fields{
		"outcome":  OutcomePrinted,
		"duration": time.Since(start).String(),
	}).Info("print job completed")
}
