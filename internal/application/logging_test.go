package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/example/schedule-conflicts/internal/logging"
)

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		err  error
		want string
	}{
		"nil":              {err: nil, want: ""},
		"not found":        {err: fmt.Errorf("wrap: %w", ErrNotFound), want: "not_found"},
		"invalid argument": {err: ErrInvalidArgument, want: "invalid_argument"},
		"canceled":         {err: context.Canceled, want: "canceled"},
		"deadline":         {err: fmt.Errorf("gather: %w", context.DeadlineExceeded), want: "canceled"},
		"validation":       {err: &ValidationError{FieldErrors: map[string]string{"kind": "bad"}}, want: "validation"},
		"wrapped":          {err: fmt.Errorf("grid: %w", &ValidationError{}), want: "validation"},
		"other":            {err: errors.New("boom"), want: "unexpected"},
	}
	for name, tc := range cases {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", name, tc.want, got)
		}
	}
}

func TestOperationLoggerPrefersContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctxLogger := slog.New(slog.NewTextHandler(&buf, nil))
	base := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := logging.ContextWithLogger(context.Background(), ctxLogger)
	operationLogger(ctx, base, "DetectConflicts", "version_id", "v1").Info("hello")

	out := buf.String()
	for _, want := range []string{"component=conflicts", "operation=DetectConflicts", "version_id=v1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log output %q", want, out)
		}
	}
}

func TestOperationLoggerFallsBackToBase(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	operationLogger(context.Background(), base, "ProjectGrid").Info("grid")
	if !strings.Contains(buf.String(), "operation=ProjectGrid") {
		t.Fatalf("expected base logger to receive the record, got %q", buf.String())
	}

	if operationLogger(context.Background(), nil, "ListVersions") == nil {
		t.Fatalf("expected a logger even without base or context logger")
	}
}
