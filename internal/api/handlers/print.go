package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/posdesk/printd/internal/core"
	"github.com/posdesk/printd/internal/registry"
)

const headerPrinterID = "x-printer-id"

// JobRunner executes one print attempt, detached from the request.
type JobRunner interface {
	Run(printer registry.Printer, payload *core.PrintPayload)
}

type PrintResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Printer string `json:"printer"`
}

type PrintHandler struct {
	registry *registry.Registry
	runner   JobRunner
}

func NewPrintHandler(reg *registry.Registry, runner JobRunner) *PrintHandler {
	return &PrintHandler{registry: reg, runner: runner}
}

// Dispatch validates addressing, acknowledges immediately and hands the
// payload to the runner. The 200 means "accepted", not "printed"; everything
// after this point is observable only in logs.
func (h *PrintHandler) Dispatch(c *gin.Context) {
	var payload core.PrintPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payload",
			Message: "Request body must be valid JSON",
		})
		return
	}

	printerKey := c.GetHeader(headerPrinterID)
	if printerKey == "" {
		printerKey = payload.PrinterID
	}
	if printerKey == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_printer_id",
			Message: "x-printer-id header is required",
		})
		return
	}

	printer, err := h.registry.FindPrinter(printerKey)
	if err != nil {
		if errors.Is(err, registry.ErrPrinterNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "printer_not_found",
				Message: "No enabled printer matches " + printerKey,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "registry_error",
			Message: "Failed to load printer registry",
		})
		return
	}

	c.JSON(http.StatusOK, PrintResponse{
		Success: true,
		Message: "Print accepted",
		Printer: printer.ID,
	})

	go h.runner.Run(*printer, &payload)
}
