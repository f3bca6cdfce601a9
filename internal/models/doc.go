// Package models defines the core domain models for Smartsplit.
//
// # Pipeline
//
// Data flows strictly forward through the models:
//
//	RawExtraction -> Receipt (parser) -> Split (calculator) -> export payload
//
// A RawExtraction is whatever the upstream document-understanding model
// produced from a receipt photo: an untyped nested mapping whose key
// names change from layout to layout. The parser turns it into a
// Receipt with canonical Items and reconciled totals. The calculator
// divides a Receipt among participants, producing a Split.
//
// No stage mutates another stage's output after it is produced; each
// model is built once and treated as immutable from then on.
//
// # Design Principles
//
//  1. **Names, not accounts**: participants are plain strings supplied
//     per split session; there are no user records to reference.
//  2. **Tolerant input, strict output**: RawExtraction carries no
//     invariants at all; Receipt and Split document theirs on each field.
//  3. **Display order matters**: Receipt.Items keeps extraction order
//     because the assignment UI shows items in that order.
package models
