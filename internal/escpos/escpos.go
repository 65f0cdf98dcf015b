// Package escpos renders printer primitives into an ESC/POS command stream
// for 80mm (3 inch) thermal receipt printers: 48 character columns, 576 dots
// per raster line.
package escpos

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/posdesk/printd/internal/core"
)

const (
	defaultColumns    = 48
	defaultRasterDots = 576
)

var (
	cmdInit    = []byte{0x1b, 0x40}
	cmdBoldOn  = []byte{0x1b, 0x45, 0x01}
	cmdBoldOff = []byte{0x1b, 0x45, 0x00}
	cmdCut     = []byte{0x1d, 0x56, 0x42, 0x00}
	cmdBeep    = []byte{0x1b, 0x42, 0x01, 0x02}
)

// Device buffers ESC/POS bytes and writes them in one batch on Execute. A
// primitive that fails records the first error and poisons the batch, so a
// broken document never reaches the printer partially.
type Device struct {
	w       io.Writer
	buf     bytes.Buffer
	columns int
	dots    int
	err     error
}

var _ core.Sink = (*Device)(nil)

func NewDevice(w io.Writer) *Device {
	d := &Device{
		w:       w,
		columns: defaultColumns,
		dots:    defaultRasterDots,
	}
	d.buf.Write(cmdInit)
	return d
}

func (d *Device) align(n byte) {
	d.buf.Write([]byte{0x1b, 0x61, n})
}

func (d *Device) AlignLeft() { d.align(0) }

func (d *Device) AlignCenter() { d.align(1) }

func (d *Device) AlignRight() { d.align(2) }

func (d *Device) Bold(on bool) {
	if on {
		d.buf.Write(cmdBoldOn)
	} else {
		d.buf.Write(cmdBoldOff)
	}
}

func (d *Device) Println(text string) {
	d.buf.WriteString(text)
	d.buf.WriteByte('\n')
}

// DrawLine repeats ch across the full line width. An empty ch draws the
// standard dashed divider.
func (d *Device) DrawLine(ch string) {
	if ch == "" {
		ch = "-"
	}
	line := strings.Repeat(ch, d.columns/len(ch)+1)[:d.columns]
	d.buf.WriteString(line)
	d.buf.WriteByte('\n')
}

func (d *Device) TableRow(cells []core.Cell) {
	for _, cell := range cells {
		if cell.Bold {
			d.buf.Write(cmdBoldOn)
		}
		d.buf.WriteString(pad(cell.Text, cell.Width, cell.Align))
		if cell.Bold {
			d.buf.Write(cmdBoldOff)
		}
	}
	d.buf.WriteByte('\n')
}

// LeftRight prints label flush left and value flush right on one line.
func (d *Device) LeftRight(label, value string) {
	gap := d.columns - len(label) - len(value)
	if gap < 1 {
		gap = 1
	}
	d.buf.WriteString(label)
	d.buf.WriteString(strings.Repeat(" ", gap))
	d.buf.WriteString(value)
	d.buf.WriteByte('\n')
}

func (d *Device) PrintImage(path string) {
	if d.err != nil {
		return
	}
	raster, err := rasterize(path, d.dots)
	if err != nil {
		d.err = fmt.Errorf("failed to rasterize image: %w", err)
		return
	}
	d.buf.Write(raster)
}

var qrLevels = map[string]byte{
	"L": 48,
	"M": 49,
	"Q": 50,
	"H": 51,
}

func (d *Device) PrintQR(data string, opts core.QROptions) {
	size := byte(opts.ModuleSize)
	if size == 0 {
		size = 6
	}
	level, ok := qrLevels[opts.ECLevel]
	if !ok {
		level = qrLevels["M"]
	}

	// Model 2, module size, error correction.
	d.buf.Write([]byte{0x1d, 0x28, 0x6b, 0x04, 0x00, 0x31, 0x41, 0x32, 0x00})
	d.buf.Write([]byte{0x1d, 0x28, 0x6b, 0x03, 0x00, 0x31, 0x43, size})
	d.buf.Write([]byte{0x1d, 0x28, 0x6b, 0x03, 0x00, 0x31, 0x45, level})

	// Store data, then print the symbol.
	n := len(data) + 3
	d.buf.Write([]byte{0x1d, 0x28, 0x6b, byte(n & 0xff), byte(n >> 8), 0x31, 0x50, 0x30})
	d.buf.WriteString(data)
	d.buf.Write([]byte{0x1d, 0x28, 0x6b, 0x03, 0x00, 0x31, 0x51, 0x30})
	d.buf.WriteByte('\n')
}

func (d *Device) Cut() {
	// Feed clear of the blade before cutting.
	d.buf.WriteString("\n\n\n")
	d.buf.Write(cmdCut)
}

func (d *Device) Beep() {
	d.buf.Write(cmdBeep)
}

// Execute flushes the buffered batch to the device. A batch poisoned by an
// earlier primitive error is discarded without writing anything.
func (d *Device) Execute() error {
	if d.err != nil {
		err := d.err
		d.err = nil
		d.buf.Reset()
		return err
	}

	_, err := d.w.Write(d.buf.Bytes())
	d.buf.Reset()
	if err != nil {
		return fmt.Errorf("failed to transmit to printer: %w", err)
	}
	return nil
}

func pad(text string, width int, align core.Alignment) string {
	if width <= 0 {
		return text
	}
	if len(text) > width {
		return text[:width]
	}

	fill := width - len(text)
	switch align {
	case core.AlignmentRight:
		return strings.Repeat(" ", fill) + text
	case core.AlignmentCenter:
		left := fill / 2
		return strings.Repeat(" ", left) + text + strings.Repeat(" ", fill-left)
	default:
		return text + strings.Repeat(" ", fill)
	}
}
