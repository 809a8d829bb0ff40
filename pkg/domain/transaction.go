package domain

// Entry is one input or output of a transaction.
// Time, Date and ValueUSD are optional; their zero value means absent.
type Entry struct {
	Recipient string  `json:"recipient"`
	Time      string  `json:"time,omitempty"`
	Date      string  `json:"date,omitempty"`
	Value     int64   `json:"value,omitempty"`
	ValueUSD  float64 `json:"value_usd,omitempty"`
}

// Transaction is a resolved transaction record.
type Transaction struct {
	Hash    string  `json:"hash"`
	Inputs  []Entry `json:"inputs"`
	Outputs []Entry `json:"outputs"`
}

// Payers returns the input recipients in entry order.
func (t *Transaction) Payers() []string {
	payers := make([]string, 0, len(t.Inputs))
	for _, in := range t.Inputs {
		payers = append(payers, in.Recipient)
	}
	return payers
}
