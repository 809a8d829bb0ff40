package domain

// Field constants shared by the provider codec and cache records.
const (
	// SatoshisPerCoin is the number of native units in one coin.
	SatoshisPerCoin = 100_000_000

	// MinAddressLength is the shortest identifier accepted as an address.
	MinAddressLength = 27
)
