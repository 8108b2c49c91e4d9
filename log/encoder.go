package log

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// RFC3339Nano is the layout of the ts field written by TimeEncoder.
const RFC3339Nano = "ts=2006-01-02T15:04:05.000000Z"

// ShortCallerEncoder writes the caller as caller=dir/file.go:line.
func ShortCallerEncoder(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("caller=" + caller.TrimmedPath())
}

// TimeEncoder writes the entry time in UTC as a ts=... field of the console
// format.
func TimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(RFC3339Nano))
}

// CapitalLevelEncoder writes the level as level=DEBUG, level=INFO, etc.
func CapitalLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("level=" + l.CapitalString())
}

// JSONTimeEncoder writes the bare UTC time for the json format.
func JSONTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(time.RFC3339Nano))
}
