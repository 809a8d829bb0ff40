/*
Package edges builds the directed payer -> recipient edges of a transaction graph.

An Edge is identified by the exact (payer, recipient, annotation) triple. Edges that
share endpoints but carry different annotations are distinct and both kept. The
Annotator renders the optional label from a transaction output according to the
requested time granularity and value set.
*/
package edges
