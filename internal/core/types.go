package core

import "encoding/json"

// LooseString decodes JSON strings, numbers and nulls into a plain string,
// since upstream POS clients are not consistent about quoting.
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = LooseString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = LooseString(num.String())
		return nil
	}

	*s = ""
	return nil
}

type InvoiceFlag struct {
	IsInvoice bool `json:"isInvoice"`
}

type CompanyInfo struct {
	Name  LooseString `json:"CompanyName"`
	Place LooseString `json:"Place"`
	Phone LooseString `json:"Phone"`
	GstNo LooseString `json:"GstNo"`
}

type BillMaster struct {
	BillNo    LooseString `json:"BillNo"`
	BillDate  LooseString `json:"BillDate"`
	BillTime  LooseString `json:"BillTime"`
	PartyName LooseString `json:"BillPartyName"`
	Address1  LooseString `json:"Address1"`
	Phone     LooseString `json:"Ph"`
	TinNo     LooseString `json:"TinNo"`
	Total     any         `json:"BillTotalField"`
	DiscAmt   any         `json:"BillDiscAmtField"`
	TaxAmt    any         `json:"TItTaxAmt"`
	NetTotal  any         `json:"BillNetTotalField"`
}

type LineItem struct {
	ItemName LooseString `json:"ItemNameTextField"`
	Qty      any         `json:"qty"`
	Rate     any         `json:"Rate1"`
	TaxAmt   any         `json:"taxAmt"`
	Total    any         `json:"total"`
}

// PrintPayload is the body of one inbound print request. Exactly one payload
// kind is acted on; see Kind.
type PrintPayload struct {
	PrinterID     string        `json:"printerId,omitempty"`
	IsInvoiceData *InvoiceFlag  `json:"isInvoiceData,omitempty"`
	Text          string        `json:"text,omitempty"`
	Company       []CompanyInfo `json:"company,omitempty"`
	Master        BillMaster    `json:"master"`
	Table         []LineItem    `json:"table,omitempty"`
	Typ           string        `json:"typ,omitempty"`
	QRData        string        `json:"qrData,omitempty"`
	Logo          string        `json:"logo,omitempty"`
}

type PayloadKind int

const (
	KindUnknown PayloadKind = iota
	KindInvoice
	KindText
)

// Kind classifies the payload. The invoice flag is checked strictly before
// the text field, so a payload carrying both prints as an invoice only.
func (p *PrintPayload) Kind() PayloadKind {
	if p.IsInvoiceData != nil && p.IsInvoiceData.IsInvoice {
		return KindInvoice
	}
	if p.Text != "" {
		return KindText
	}
	return KindUnknown
}
