// Package models defines the domain entities and read views for the
// shared-expense backend.
//
// # Entities
//
// Entities mirror what the entity store persists:
//   - User: a phone-identified person; provisional users have no password
//   - Event: a gathering owned by a user, grouping bills
//   - Bill: one expense, optionally paid by a user, holding items
//   - Item: one priced line of a bill, assigned to a user and optionally
//     shared between participants
//   - Invite: an invitation for a user to join an event
//
// # Views
//
// Views (BillView, EventView, InviteView, ...) are user-scoped projections
// assembled on read and never persisted. Each one is built by an explicit
// constructor in this package rather than by reflecting over entity fields.
//
// # Money
//
// Every monetary amount is a decimal.Decimal. Binary floating point is never
// used for prices, debts or totals.
package models
