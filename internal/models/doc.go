// Package models defines the core domain models for billsplit.
//
// # Models
//
//   - LineItem: one line of the bill, shared among the participants it is
//     assigned to
//   - PersonSplit: calculated share of the bill for one participant
//   - Snapshot: read-only copy of a bill session
//
// Participants are identified by name strings (no user accounts).
//
// # Design Principles
//
// 1. **Validated construction**: LineItem values coming from user input go
// through NewLineItem or ParseLineItem, which either return a complete,
// valid item or an error. There is no partially valid item.
// 2. **Positional identity**: items and participants have no identity
// beyond their index in the owning sequence.
// 3. **Names, not pointers**: assignments reference participants by name.
package models
