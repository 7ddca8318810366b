package errors

import (
	stdErrors "errors"
)

// ErrorDump flattens an error chain for structured logging.
type ErrorDump struct {
	Code       string
	TopMessage string
	Chain      []string
}

// Dump walks the wrapped chain so log lines carry every cause.
func Dump(err error) ErrorDump {
	dump := ErrorDump{}
	if err == nil {
		return dump
	}

	dump.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		dump.Code = string(typed.Code())
	}

	for current := err; current != nil; current = stdErrors.Unwrap(current) {
		dump.Chain = append(dump.Chain, current.Error())
	}
	return dump
}
