package memory

import (
	"context"
	"fmt"
	"sync"

	"pokerboard/internal/core"
	ports "pokerboard/internal/sheets"
)

// Store keeps written reports in memory. It backs dry runs and tests.
type Store struct {
	mu      sync.Mutex
	reports []core.Report
}

var _ ports.ReportWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// WriteReport stores the report and returns a synthetic reference.
func (s *Store) WriteReport(ctx context.Context, report core.Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return fmt.Sprintf("mem:%d", len(s.reports)), nil
}

// Reports returns a copy of everything written so far, oldest first.
func (s *Store) Reports() []core.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Report(nil), s.reports...)
}

// Last returns the most recent report.
func (s *Store) Last() (core.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reports) == 0 {
		return core.Report{}, false
	}
	return s.reports[len(s.reports)-1], true
}

// Tables returns the most recent report laid out as sheets.
func (s *Store) Tables() []ports.Table {
	report, ok := s.Last()
	if !ok {
		return nil
	}
	return ports.Tabulate(report)
}
