/*
Package domain contains the core data model of txgraph.

It defines the records resolved from a chain data provider (Address, Transaction
and their Entry values), the cache record kinds, the data-source policies and the
error sentinels shared by every layer. This package is kept free of I/O.

# Key Entities

  - Address: An address with its transaction count and ordered transaction hashes.
  - Transaction: A transaction with ordered input and output entries.
  - Entry: One side of a transfer (recipient plus optional time and value data).
  - Kind: The cache namespace of a record (address or transaction).
  - Policy: Where the resolver is allowed to look for a record.
*/
package domain
