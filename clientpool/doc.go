// Package clientpool provides a generic connection pool driven by a Manager.
//
// A Manager knows how to open, validate and recognize broken connections of
// one concrete type; the pool decides when to do each:
//
//   - Get takes an idle connection, validates it (unless
//     Config.SkipValidation is set) and falls back to Manager.Connect.
//   - Release asks Manager.HasBroken before keeping a connection idle.
//
// Errors from the Manager are returned to the caller of Get unchanged.
// The tikvbp package provides Managers for TiKV clients.
package clientpool
