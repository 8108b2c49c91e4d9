// Package log provides a wrapped zap logger for the pool packages.
//
// The global logger is a nop logger until one of the Init functions is
// called. When a context object is at hand, prefer the logger attached to it:
//
//	log.C(ctx).Debugw("Discarding connection", "err", err)
//
// Otherwise use the package level functions:
//
//	log.Errorw("Something went wrong!", "err", err)
package log
