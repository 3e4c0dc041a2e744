package mocks

import (
	"context"
	"sync"

	"bengkel/infras/otel"
)

// Recorder is an otel.Otel whose scopes remember the errors traced on them, keyed by span name.
type Recorder struct {
	mu   sync.Mutex
	errs map[string][]error
}

func NewRecorder() *Recorder {
	return &Recorder{errs: map[string][]error{}}
}

// NewScope implements otel.Otel.
func (r *Recorder) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	return ctx, &recordingScope{recorder: r, span: spanName}
}

// Errors returns the errors traced on spans named spanName.
func (r *Recorder) Errors(spanName string) []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]error(nil), r.errs[spanName]...)
}

func (r *Recorder) record(spanName string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errs[spanName] = append(r.errs[spanName], err)
}

type recordingScope struct {
	scopeImpl

	recorder *Recorder
	span     string
}

// TraceError implements otel.Scope.
func (s *recordingScope) TraceError(err error) {
	s.recorder.record(s.span, err)
}

// TraceIfError implements otel.Scope.
func (s *recordingScope) TraceIfError(err error) {
	if err != nil {
		s.recorder.record(s.span, err)
	}
}
