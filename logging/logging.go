// Package logging wraps go.uber.org/zap behind the level-check-then-format
// sink shape spec.md §6 names as the core's logging collaborator, mirroring
// dev.dominion.ecs.engine.system.LoggingSystem's isLoggable(level) +
// format(subject, message) split. Call sites guard expensive formatting
// with Enabled so a disabled level never builds a string.
package logging

import "go.uber.org/zap"

// Level mirrors the small set of levels the core ever checks.
type Level int8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// Context carries a logger plus the "subject" (a composition, tenant, or
// pool description) that Debugf/Tracef/Errorf prefix every line with, matching
// LoggingSystem.Context's (levelIndex, subject) pair.
type Context struct {
	logger *zap.Logger
	level  Level
	subject string
}

// NewContext builds a Context around a zap.Logger at the given minimum
// level. A nil logger is replaced with zap's no-op logger so callers never
// need a nil check.
func NewContext(logger *zap.Logger, level Level, subject string) Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Context{logger: logger, level: level, subject: subject}
}

// Enabled reports whether a message at level would actually be emitted,
// letting call sites skip formatting work entirely when it would not.
func (c Context) Enabled(level Level) bool {
	return level >= c.level
}

// Debugf formats and emits a debug-level line tagged with the context's
// subject, if debug logging is enabled.
func (c Context) Debugf(format string, args ...any) {
	if !c.Enabled(LevelDebug) {
		return
	}
	c.logger.Sugar().Debugf(c.subject+": "+format, args...)
}

// Tracef formats and emits a trace-level line. Zap has no dedicated trace
// level, so trace lines are emitted at debug verbosity with a distinct
// prefix, matching how the original engine's TRACE lines are the verbose
// subset of its DEBUG channel.
func (c Context) Tracef(format string, args ...any) {
	if !c.Enabled(LevelTrace) {
		return
	}
	c.logger.Sugar().Debugf("TRACE "+c.subject+": "+format, args...)
}

// Errorf formats and emits an error-level line.
func (c Context) Errorf(format string, args ...any) {
	c.logger.Sugar().Errorf(c.subject+": "+format, args...)
}

// WithSubject returns a copy of c scoped to a new subject, used when a
// composition or tenant wants to log under its own description instead of
// its parent's.
func (c Context) WithSubject(subject string) Context {
	c.subject = subject
	return c
}
