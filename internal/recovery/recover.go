// Package recovery turns panics raised while parsing a request into
// errors, so one bad query cannot take down the serving process.
package recovery

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// PanicError is returned by Do and Run when the guarded call panicked.
type PanicError struct {
	Op    string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s panicked: %v", e.Op, e.Value)
}

// GRPCStatus maps the panic to codes.Internal.
func (e *PanicError) GRPCStatus() *status.Status {
	return status.New(codes.Internal, e.Error())
}

// Do calls fn and returns its result. A panic is logged with its stack
// and returned as a *PanicError with a zero result.
//
// Example:
//
//	opts, err := recovery.Do(logger, "ParseQuery", func() (*odata.QueryOptions, error) {
//	    return parser.Parse(raw)
//	})
func Do[T any](logger *slog.Logger, op string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result, err = zero, recovered(logger, op, r)
		}
	}()
	return fn()
}

// Run is Do for calls without a result.
func Run(logger *slog.Logger, op string, fn func() error) error {
	_, err := Do(logger, op, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Guard calls fn and only logs a panic. It reports whether fn returned
// normally.
func Guard(logger *slog.Logger, op string, fn func()) bool {
	return Run(logger, op, func() error {
		fn()
		return nil
	}) == nil
}

func recovered(logger *slog.Logger, op string, r any) error {
	logger.Error("Panic recovered",
		"operation", op,
		"panic", r,
		"stack", string(debug.Stack()),
	)
	return &PanicError{Op: op, Value: r}
}
