package core

import (
	"strconv"

	"github.com/sirupsen/logrus"
)

const (
	itemNameMaxLen = 30
	footerLine     = "Thank You! Visit Again"

	// typDirect3Inch gates the QR block; the caller sends it verbatim.
	typDirect3Inch = "Direct Print 3Inch"

	qrModuleSize = 6
)

var itemColumns = []Cell{
	{Text: "#", Width: 3, Bold: true},
	{Text: "Item Name", Width: 21, Bold: true},
	{Text: "Qty", Width: 5, Align: AlignmentRight, Bold: true},
	{Text: "Rate", Width: 7, Align: AlignmentRight, Bold: true},
	{Text: "Tax-Amt", Width: 6, Align: AlignmentRight, Bold: true},
	{Text: "Net-Amt", Width: 6, Align: AlignmentRight, Bold: true},
}

// Renderer turns a print payload into an ordered sequence of sink primitives.
// It never writes to the device itself; the sink buffers everything until
// Execute.
type Renderer struct {
	logo LogoFetcher
	log  logrus.FieldLogger
}

func NewRenderer(logo LogoFetcher, log logrus.FieldLogger) *Renderer {
	if logo == nil {
		logo = FetchLogo
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Renderer{logo: logo, log: log}
}

func (r *Renderer) RenderText(sink Sink, text string) error {
	sink.Println(text)
	sink.Cut()
	return sink.Execute()
}

func (r *Renderer) RenderInvoice(sink Sink, p *PrintPayload) error {
	if p.Logo != "" {
		path, cleanup, err := r.logo(p.Logo)
		if err != nil {
			// A missing logo never fails the receipt.
			r.log.WithError(err).WithField("logo", p.Logo).Warn("logo unavailable, printing without it")
		} else {
			defer cleanup()
			sink.AlignCenter()
			sink.PrintImage(path)
		}
	}

	var company CompanyInfo
	if len(p.Company) > 0 {
		company = p.Company[0]
	}

	sink.AlignCenter()
	sink.Bold(true)
	sink.Println(string(company.Name))
	sink.Bold(false)
	if company.Place != "" {
		sink.Println(string(company.Place))
	}
	if company.Phone != "" {
		sink.Println("Ph: " + string(company.Phone))
	}
	if company.GstNo != "" {
		sink.Println("GST No: " + string(company.GstNo))
	}

	sink.DrawLine("-")

	sink.AlignLeft()
	sink.Println("Bill No : " + string(p.Master.BillNo))
	sink.Println("Date    : " + string(p.Master.BillDate) + " " + string(p.Master.BillTime))

	party := string(p.Master.PartyName)
	if party != "" {
		sink.Println("Party   : " + party)
	}

	// TODO: confirm whether cash/guest bills were meant to skip the address
	// block; as written the condition can never be false, so it always prints.
	if party != "Cash" || party != "3" {
		if p.Master.Address1 != "" {
			sink.Println(string(p.Master.Address1))
		}
		if p.Master.Phone != "" {
			sink.Println("Ph: " + string(p.Master.Phone))
		}
		if p.Master.TinNo != "" {
			sink.Println("TIN: " + string(p.Master.TinNo))
		}
	}

	sink.DrawLine("-")
	sink.TableRow(itemColumns)
	sink.DrawLine("-")

	for i, item := range p.Table {
		name := string(item.ItemName)
		if len(name) > itemNameMaxLen {
			name = name[:itemNameMaxLen]
		}
		sink.TableRow([]Cell{
			{Text: strconv.Itoa(i + 1), Width: 3},
			{Text: name, Width: 45},
		})
		sink.TableRow([]Cell{
			{Text: "", Width: 3},
			{Text: "", Width: 21},
			{Text: FormatAmount(item.Qty), Width: 5, Align: AlignmentRight},
			{Text: FormatAmount(item.Rate), Width: 7, Align: AlignmentRight},
			{Text: FormatAmount(item.TaxAmt), Width: 6, Align: AlignmentRight},
			{Text: FormatAmount(item.Total), Width: 6, Align: AlignmentRight},
		})
	}

	sink.DrawLine("-")

	sink.LeftRight("Sub Total", FormatAmount(p.Master.Total))
	sink.LeftRight("Discount", FormatAmount(p.Master.DiscAmt))
	sink.LeftRight("Tax", FormatAmount(p.Master.TaxAmt))
	sink.LeftRight("Net Total", FormatAmount(p.Master.NetTotal))

	sink.DrawLine("-")

	sink.AlignRight()
	sink.Bold(true)
	sink.Println("NET TOTAL : " + FormatAmount(p.Master.NetTotal))
	sink.Bold(false)

	sink.DrawLine("- ")

	if p.Typ == typDirect3Inch && p.IsInvoiceData != nil && p.IsInvoiceData.IsInvoice && p.QRData != "" {
		sink.AlignCenter()
		sink.PrintQR(p.QRData, QROptions{ModuleSize: qrModuleSize, ECLevel: "M"})
	}

	sink.AlignCenter()
	sink.Println(footerLine)
	sink.Println("")
	sink.Cut()
	sink.Beep()
	sink.Beep()
	sink.Beep()

	return sink.Execute()
}
