package gen

import (
	"errors"
	"log/slog"
	"sync"
)

// Diagnostics collects the configuration errors found while resolving a
// graph. Reporting an error logs it and marks the run failed, but resolution
// goes on so that one run surfaces every problem.
type Diagnostics struct {
	log  *slog.Logger
	mu   sync.Mutex
	errs []error
}

// NewDiagnostics returns a sink logging to l. A nil logger uses slog.Default.
func NewDiagnostics(l *slog.Logger) *Diagnostics {
	if l == nil {
		l = slog.Default()
	}
	return &Diagnostics{log: l}
}

// Report records err. Schema, validation and reference errors are logged
// with the entity, field and position they point at.
func (d *Diagnostics) Report(err error) {
	if err == nil {
		return
	}
	d.mu.Lock()
	d.errs = append(d.errs, err)
	d.mu.Unlock()
	attrs := []any{slog.String("error", err.Error())}
	var (
		se *SchemaError
		ve *ValidationError
		re *ReferenceError
	)
	switch {
	case errors.As(err, &se):
		attrs = append(attrs, slog.String("entity", se.Type), slog.String("field", se.Field), slog.String("pos", se.Pos))
	case errors.As(err, &ve):
		attrs = append(attrs, slog.String("entity", ve.Type), slog.String("field", ve.Field), slog.String("pos", ve.Pos))
	case errors.As(err, &re):
		attrs = append(attrs, slog.String("entity", re.From), slog.String("field", re.Field), slog.String("pos", re.Pos))
	}
	d.log.Error("litegen: configuration error", attrs...)
}

// Failed reports if any error was recorded.
func (d *Diagnostics) Failed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.errs) > 0
}

// Errors returns the recorded errors in reporting order.
func (d *Diagnostics) Errors() []error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]error(nil), d.errs...)
}

// Err joins the recorded errors. It is nil when none were reported.
func (d *Diagnostics) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return errors.Join(d.errs...)
}
