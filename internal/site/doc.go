// Package site queries the appointment booking service for open slots.
//
// The main components are:
//
//   - [Client]: lazily-connected HTTP client with bounded retry on transport errors
//   - [Query]: form parameters of one slot search, derived from a config snapshot
//   - [Slot]: one bookable appointment extracted from the results page
//
// Search results are scraped from the HTML page returned by the service; see
// [ParseSlots] for the expected document shape.
package site
