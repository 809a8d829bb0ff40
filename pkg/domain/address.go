package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// Address is a resolved address record.
// Its transaction list is fixed once resolved.
type Address struct {
	Hash             string   `json:"hash"`
	TransactionCount int      `json:"transaction_count"`
	Transactions     []string `json:"transactions"`
}

// HasActivity reports whether the address ever took part in a transaction.
func (a *Address) HasActivity() bool {
	return a.TransactionCount > 0
}

// ValidateAddress checks that id looks like an address: alphanumeric and at least
// MinAddressLength characters long.
func ValidateAddress(id string) error {
	if len(id) < MinAddressLength {
		return fmt.Errorf("%w: %q is shorter than %d characters", ErrInvalidAddress, id, MinAddressLength)
	}
	for _, r := range id {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return fmt.Errorf("%w: %q contains non-alphanumeric characters", ErrInvalidAddress, id)
		}
	}
	return nil
}

// NormalizeAddress trims surrounding whitespace from a user-supplied identifier.
func NormalizeAddress(id string) string {
	return strings.TrimSpace(id)
}
