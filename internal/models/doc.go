// Package models defines the core domain models for Homeledger.
//
// # Persisted Models
//
//   - House: a shared household whose members split expenses
//   - Member: a person belonging to one house
//   - Expense: money spent by one member on behalf of the house
//   - ExpenseSplit: one member's percentage share of an expense
//
// A settlement is not a separate table. It is an Expense with category
// SETTLEMENT, where PayerID is the member paying off debt and PaidTo holds
// the single member receiving the money. Settlements carry no splits.
//
// # Derived Values
//
// Balances, settlement suggestions, and spending aggregates live in the
// calculator package. They are recomputed from expenses on every query and
// are never stored.
//
// # Design Principles
//
//  1. Money is decimal.Decimal, never float64
//  2. Split percentages are float64 in [0, 100]; they are compared with a
//     0.01 tolerance rather than exactly
//  3. Relationships use ID strings instead of pointers
package models
