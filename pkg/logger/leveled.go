package logger

import (
	"context"
	"fmt"
)

// Leveled adapts a Logger to the key/value leveled logging interface used by
// HTTP client libraries such as go-retryablehttp.
type Leveled struct {
	l Logger
}

// NewLeveled wraps l. Client libraries log without a context, so records are
// emitted with context.Background().
func NewLeveled(l Logger) *Leveled {
	return &Leveled{l: l}
}

func (a *Leveled) Error(msg string, keysAndValues ...interface{}) {
	a.l.Error(context.Background(), msg, pairs(keysAndValues)...)
}

func (a *Leveled) Warn(msg string, keysAndValues ...interface{}) {
	a.l.Warn(context.Background(), msg, pairs(keysAndValues)...)
}

func (a *Leveled) Info(msg string, keysAndValues ...interface{}) {
	// retry chatter is debug-level noise for this application
	a.l.Debug(context.Background(), msg, pairs(keysAndValues)...)
}

func (a *Leveled) Debug(msg string, keysAndValues ...interface{}) {
	a.l.Debug(context.Background(), msg, pairs(keysAndValues)...)
}

func pairs(kv []interface{}) []Field {
	fields := make([]Field, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 >= len(kv) {
			fields = append(fields, Any("extra", kv[i]))
			break
		}
		fields = append(fields, Any(key, kv[i+1]))
	}
	return fields
}
