package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/posdesk/printd/internal/core"
	"github.com/posdesk/printd/internal/registry"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type PrinterEntry struct {
	registry.Printer
	Online bool `json:"online"`
}

type PrinterHandler struct {
	registry    *registry.Registry
	probe       core.Prober
	listTimeout time.Duration
}

func NewPrinterHandler(reg *registry.Registry, probe core.Prober, listTimeout time.Duration) *PrinterHandler {
	if probe == nil {
		probe = core.IsOnline
	}
	return &PrinterHandler{
		registry:    reg,
		probe:       probe,
		listTimeout: listTimeout,
	}
}

// ListPrinters probes every configured printer in parallel before replying,
// so the response reflects reachability as of now.
func (h *PrinterHandler) ListPrinters(c *gin.Context) {
	printers, err := h.registry.ListPrinters()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "registry_error",
			Message: "Failed to load printer registry",
		})
		return
	}

	entries := make([]PrinterEntry, len(printers))
	var wg sync.WaitGroup
	for i, p := range printers {
		entries[i].Printer = p
		wg.Add(1)
		go func(i int, p registry.Printer) {
			defer wg.Done()
			entries[i].Online = h.probe(p.Connection.IP, p.Connection.Port, h.listTimeout)
		}(i, p)
	}
	wg.Wait()

	c.JSON(http.StatusOK, gin.H{"printers": entries})
}
