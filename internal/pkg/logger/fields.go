package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Field is a structured log field. Call sites build fields through these
// helpers so handlers and usecases never import logrus directly.
type Field struct {
	Key   string
	Value interface{}
}

// String constructs a field that carries a string value
func String(key, val string) Field {
	return Field{Key: key, Value: val}
}

// Int constructs a field that carries an int value
func Int(key string, val int) Field {
	return Field{Key: key, Value: val}
}

// Float64 constructs a field that carries a float64 value
func Float64(key string, val float64) Field {
	return Field{Key: key, Value: val}
}

// Bool constructs a field that carries a boolean value
func Bool(key string, val bool) Field {
	return Field{Key: key, Value: val}
}

// Duration constructs a field that carries a time.Duration value
func Duration(key string, val time.Duration) Field {
	return Field{Key: key, Value: val.String()}
}

// Any constructs a field that carries an arbitrary value
func Any(key string, val interface{}) Field {
	return Field{Key: key, Value: val}
}

// Err constructs a field that carries an error
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// ErrorField constructs a field that carries an error (alias for Err)
func ErrorField(err error) Field {
	return Err(err)
}

func fieldsToLogrus(fields []Field) logrus.Fields {
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok && err != nil {
			lf[f.Key] = err.Error()
			continue
		}
		lf[f.Key] = f.Value
	}
	return lf
}
