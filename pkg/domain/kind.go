package domain

import "fmt"

// Kind is the cache namespace of a record.
type Kind string

const (
	KindAddress     Kind = "address"
	KindTransaction Kind = "transaction"
)

// Kinds lists every record kind.
var Kinds = []Kind{KindAddress, KindTransaction}

// ParseKind converts a user-supplied string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAddress, KindTransaction:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown record kind %q (want address or transaction)", s)
}
