package blockchair

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/txgraph/pkg/domain"
)

// envelope is the outer shape of every dashboards response.
type envelope struct {
	Data    map[string]json.RawMessage `json:"data"`
	Context responseContext            `json:"context"`
}

type responseContext struct {
	Code  int    `json:"code"`
	Error string `json:"error,omitempty"`
}

type addressDashboard struct {
	Address struct {
		TransactionCount int `json:"transaction_count"`
	} `json:"address"`
	Transactions []string `json:"transactions"`
}

type transactionDashboard struct {
	Inputs  []entry `json:"inputs"`
	Outputs []entry `json:"outputs"`
}

type entry struct {
	Recipient string   `json:"recipient"`
	Time      string   `json:"time"`
	Date      string   `json:"date"`
	Value     int64    `json:"value"`
	ValueUSD  *float64 `json:"value_usd"`
}

func (e entry) toDomain() domain.Entry {
	out := domain.Entry{
		Recipient: e.Recipient,
		Time:      e.Time,
		Date:      e.Date,
		Value:     e.Value,
	}
	if e.ValueUSD != nil {
		out.ValueUSD = *e.ValueUSD
	}
	return out
}

// quotaCodes are the status codes Blockchair uses for rate limits and exhausted plans.
var quotaCodes = map[int]bool{
	402: true,
	429: true,
	430: true,
	434: true,
	435: true,
}

// errMalformed marks a response body that is not a JSON envelope.
var errMalformed = errors.New("malformed response")

func isMalformed(err error) bool {
	return errors.Is(err, errMalformed)
}

// Codec decodes Blockchair dashboard responses.
type Codec struct{}

// CheckError returns the structured error carried by a response, if any.
// Quota and rate-limit codes map to domain.ErrQuotaExceeded, other failures to domain.ErrProvider.
func (Codec) CheckError(raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %w: %v", domain.ErrProvider, errMalformed, err)
	}
	return statusError(env.Context.Code, env.Context.Error)
}

func statusError(code int, msg string) error {
	switch {
	case code == 0 || (code >= 200 && code < 300):
		return nil
	case quotaCodes[code]:
		return fmt.Errorf("%w (code %d): %s", domain.ErrQuotaExceeded, code, msg)
	default:
		return fmt.Errorf("%w (code %d): %s", domain.ErrProvider, code, msg)
	}
}

func (Codec) record(hash string, raw []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if rec, ok := env.Data[hash]; ok {
		return rec, nil
	}
	// The API may normalize the key (e.g. lowercased bech32); accept a lone record.
	if len(env.Data) == 1 {
		for _, rec := range env.Data {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("response has no record for %s", hash)
}

// DecodeAddress extracts the address dashboard for hash.
func (c Codec) DecodeAddress(hash string, raw []byte) (*domain.Address, error) {
	rec, err := c.record(hash, raw)
	if err != nil {
		return nil, fmt.Errorf("decode address %s: %w", hash, err)
	}

	var dash addressDashboard
	if err := json.Unmarshal(rec, &dash); err != nil {
		return nil, fmt.Errorf("decode address %s: %w", hash, err)
	}

	return &domain.Address{
		Hash:             hash,
		TransactionCount: dash.Address.TransactionCount,
		Transactions:     dash.Transactions,
	}, nil
}

// DecodeTransaction extracts the transaction dashboard for hash.
func (c Codec) DecodeTransaction(hash string, raw []byte) (*domain.Transaction, error) {
	rec, err := c.record(hash, raw)
	if err != nil {
		return nil, fmt.Errorf("decode transaction %s: %w", hash, err)
	}

	var dash transactionDashboard
	if err := json.Unmarshal(rec, &dash); err != nil {
		return nil, fmt.Errorf("decode transaction %s: %w", hash, err)
	}

	tx := &domain.Transaction{
		Hash:    hash,
		Inputs:  make([]domain.Entry, 0, len(dash.Inputs)),
		Outputs: make([]domain.Entry, 0, len(dash.Outputs)),
	}
	for _, in := range dash.Inputs {
		tx.Inputs = append(tx.Inputs, in.toDomain())
	}
	for _, out := range dash.Outputs {
		tx.Outputs = append(tx.Outputs, out.toDomain())
	}
	return tx, nil
}
