package core

type Alignment int

const (
	AlignmentLeft Alignment = iota
	AlignmentCenter
	AlignmentRight
)

type Cell struct {
	Text  string
	Width int
	Align Alignment
	Bold  bool
}

type QROptions struct {
	// ModuleSize is the dot size of one QR module.
	ModuleSize int
	// ECLevel is the error correction level: "L", "M", "Q" or "H".
	ECLevel string
}

// Sink is the destination for ordered printer primitives. Primitives buffer;
// nothing reaches the device until Execute, which flushes the whole batch
// atomically and surfaces the first error encountered. A batch that errors
// before Execute is simply never flushed.
type Sink interface {
	AlignLeft()
	AlignCenter()
	AlignRight()
	Bold(on bool)
	Println(text string)
	DrawLine(ch string)
	TableRow(cells []Cell)
	LeftRight(label, value string)
	PrintImage(path string)
	PrintQR(data string, opts QROptions)
	Cut()
	Beep()
	Execute() error
}
