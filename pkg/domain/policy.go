package domain

import "fmt"

// Policy selects where the resolver may look for a record.
type Policy int

const (
	// PolicyLocalFirst reads the cache and falls back to the network on a miss.
	PolicyLocalFirst Policy = iota
	// PolicyOffline reads the cache only.
	PolicyOffline
	// PolicyNetworkOnly always fetches from the network and refreshes the cache.
	PolicyNetworkOnly
)

func (p Policy) String() string {
	switch p {
	case PolicyOffline:
		return "offline"
	case PolicyNetworkOnly:
		return "network"
	default:
		return "local"
	}
}

// ParsePolicy converts a flag value into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "offline":
		return PolicyOffline, nil
	case "local", "local-first", "":
		return PolicyLocalFirst, nil
	case "network":
		return PolicyNetworkOnly, nil
	}
	return 0, fmt.Errorf("unknown data source %q (want offline, local or network)", s)
}
