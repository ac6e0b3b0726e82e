package testfixtures

import (
	"io"
	"log/slog"
	"testing"

	"github.com/example/schedule-conflicts/internal/adapters"
	"github.com/example/schedule-conflicts/internal/application"
)

// ServiceFactory builds application services over a harness with a
// controllable clock.
type ServiceFactory struct {
	Clock  *Clock
	Logger *slog.Logger
}

// NewServiceFactory starts its clock at ReferenceTime and discards logs.
func NewServiceFactory() *ServiceFactory {
	return &ServiceFactory{
		Clock:  NewClock(ReferenceTime()),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// NewConflictService wires a ConflictService to the harness store. The
// configure hooks may set TimeSlots or a Recorder before construction.
func (f *ServiceFactory) NewConflictService(tb testing.TB, h *SQLiteHarness, configure ...func(*application.ConflictServiceDeps)) *application.ConflictService {
	tb.Helper()

	deps := adapters.ConflictDeps(h.Repositories)
	deps.Now = f.Clock.NowFunc()
	deps.Logger = f.Logger
	for _, fn := range configure {
		fn(&deps)
	}

	service, err := application.NewConflictService(deps)
	if err != nil {
		tb.Fatalf("NewConflictService failed: %v", err)
	}
	return service
}
