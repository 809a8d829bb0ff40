package txgraph_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/txgraph"
	"github.com/aretw0/txgraph/pkg/adapters/memory"
	"github.com/aretw0/txgraph/pkg/domain"
	"github.com/aretw0/txgraph/pkg/edges"
)

const (
	examplePayer     = "1PayerAddressXXXXXXXXXXXXXXXXXX"
	exampleRecipient = "1RecipientAddressXXXXXXXXXXXXX"
)

// ExampleNew_memory demonstrates expanding a seed against in-memory fixtures
// instead of the file cache and the Blockchair API.
func ExampleNew_memory() {
	provider := memory.NewProvider().
		Add(domain.KindAddress, examplePayer, `{"data":{"`+examplePayer+`":{"address":{"transaction_count":1},"transactions":["tx1"]}}}`).
		Add(domain.KindAddress, exampleRecipient, `{"data":{"`+exampleRecipient+`":{"address":{"transaction_count":1},"transactions":["tx1"]}}}`).
		Add(domain.KindTransaction, "tx1", `{"data":{"tx1":{
			"inputs":[{"recipient":"`+examplePayer+`"}],
			"outputs":[{"recipient":"`+exampleRecipient+`","value":100000000,"time":"2023-01-01 00:00:00"}]}}}`)

	engine, err := txgraph.New("",
		txgraph.WithStore(memory.NewStore()),
		txgraph.WithProvider(provider),
		txgraph.WithAnnotator(edges.Annotator{Time: edges.TimeDate, Values: edges.ValueSet{Native: true}}),
	)
	if err != nil {
		log.Fatal(err)
	}

	doc, err := engine.Expand(context.Background(), examplePayer)
	if err != nil {
		log.Fatal(err)
	}

	text, err := txgraph.Render(doc, txgraph.FormatDOT)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(text)
	// Output:
	// digraph {
	// rankdir=LR;
	// "1PayerAddressXXXXXXXXXXXXXXXXXX" -> "1RecipientAddressXXXXXXXXXXXXX" [label="2023-01-01\nBTC1.0" decorate=false];
	// }
}
