/*
Package ports defines the driven ports (interfaces) of txgraph.

These interfaces decouple the expansion engine from storage backends and chain data
providers, so the same engine runs against a local cache directory, Redis, an
in-memory map, or a live API.

# Key Interfaces

  - RecordStore: Persists raw address and transaction records keyed by (kind, hash).
  - Provider: Fetches raw records from a chain data provider.
  - EdgeSink: Receives the edges of a finished seed graph (Kafka, neo4j).
*/
package ports
