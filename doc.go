/*
Package txgraph builds Bitcoin transaction graphs around seed addresses.

Starting from a seed, the engine walks an append-only frontier of addresses for a
fixed number of iterations, resolving address and transaction records through a
cache-aware resolver, and collects payer -> recipient edges optionally annotated
with time and value. Documents render as Graphviz DOT or Mermaid, and several
per-seed DOT documents can be merged into one with seed highlighting and
truncation.

# Architecture

The core is hexagonal. Records come from a ports.Provider (the Blockchair
dashboards API by default) and are cached verbatim in a ports.RecordStore (file,
memory or redis). A resolution policy decides when the cache is consulted:

  - domain.PolicyOffline: cache only; misses are fatal unless lenient.
  - domain.PolicyLocalFirst: cache first, fetch and save on a miss.
  - domain.PolicyNetworkOnly: always fetch and save.

# Usage

	eng, err := txgraph.New("./data",
		txgraph.WithPolicy(domain.PolicyLocalFirst),
		txgraph.WithAnnotator(edges.Annotator{Time: edges.TimeDate, Values: edges.ValueSet{Native: true}}),
	)
	if err != nil {
		log.Fatal(err)
	}

	doc, err := eng.Expand(ctx, "1BoatSLRHtKNngkdXEeobR76b53LETtpyT")
	if err != nil {
		log.Fatal(err)
	}

	text, _ := txgraph.Render(doc, txgraph.FormatDOT)
	fmt.Print(text)

Provider failures, including quota exhaustion (domain.ErrQuotaExceeded), abort the
expansion. Callers decide how to terminate.
*/
package txgraph
