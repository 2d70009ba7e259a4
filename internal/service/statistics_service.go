package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GENKAIYIEE/library-backend/internal/clock"
	"github.com/GENKAIYIEE/library-backend/internal/models"
	appErrors "github.com/GENKAIYIEE/library-backend/pkg/errors"
	"github.com/GENKAIYIEE/library-backend/pkg/export"
	"github.com/GENKAIYIEE/library-backend/pkg/jobs"
)

type statisticStore interface {
	IncrementRange(ctx context.Context, year, month, rangeStart, rangeEnd int, class models.PatronClass) error
	ListByYear(ctx context.Context, year int) ([]models.MonthlyStatistic, error)
}

type borrowEvent struct {
	Year       int
	Month      int
	RangeStart int
	RangeEnd   int
	Class      models.PatronClass
}

// StatisticsService keeps the monthly borrow counters per Dewey
// hundred-range. Recording runs on a background queue so a statistics
// hiccup never slows or fails the circulation desk.
type StatisticsService struct {
	repo   statisticStore
	queue  *jobs.Queue
	clock  clock.Clock
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewStatisticsService constructs the service and its worker queue. The
// returned service owns the queue; call Start/Stop around the server's
// lifetime.
func NewStatisticsService(repo statisticStore, cfg jobs.QueueConfig, clk clock.Clock, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	s := &StatisticsService{
		repo:   repo,
		clock:  clk,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
	cfg.Logger = logger
	s.queue = jobs.NewQueue("statistics", s.handleJob, cfg)
	return s
}

// Start launches the recorder workers.
func (s *StatisticsService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *StatisticsService) Stop() {
	s.queue.Stop()
}

// RecordBorrow classifies a call number into its Dewey hundred-range
// and enqueues a counter increment for the current month. Call numbers
// that carry no leading digits are silently skipped.
func (s *StatisticsService) RecordBorrow(callNumber string, class models.PatronClass) {
	start, end, ok := deweyRange(callNumber)
	if !ok {
		s.logger.Debug("call number has no dewey class, skipping", zap.String("call_number", callNumber))
		return
	}
	now := s.clock.Now()
	event := borrowEvent{
		Year:       now.Year(),
		Month:      int(now.Month()),
		RangeStart: start,
		RangeEnd:   end,
		Class:      class,
	}
	job := jobs.Job{ID: uuid.NewString(), Type: "borrow_recorded", Payload: event}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue statistics job", zap.Error(err))
	}
}

func (s *StatisticsService) handleJob(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(borrowEvent)
	if !ok {
		s.logger.Error("unexpected statistics payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.repo.IncrementRange(ctx, event.Year, event.Month, event.RangeStart, event.RangeEnd, event.Class)
}

// YearlyMatrix assembles the twelve-month report for a year, one row per
// Dewey range that saw at least one borrow. Student and faculty counts
// are merged; use ListByYear for the raw per-class cells.
func (s *StatisticsService) YearlyMatrix(ctx context.Context, year int) (*models.StatisticsMatrix, error) {
	if year < 1900 || year > 9999 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "year out of range")
	}
	stats, err := s.repo.ListByYear(ctx, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load statistics")
	}

	rows := map[int]*models.StatisticsMatrixRow{}
	for _, st := range stats {
		row, found := rows[st.RangeStart]
		if !found {
			row = &models.StatisticsMatrixRow{RangeStart: st.RangeStart, RangeEnd: st.RangeEnd}
			rows[st.RangeStart] = row
		}
		if st.Month >= 1 && st.Month <= 12 {
			row.Months[st.Month-1] += st.Count
		}
	}

	starts := make([]int, 0, len(rows))
	for start := range rows {
		starts = append(starts, start)
	}
	sort.Ints(starts)

	matrix := &models.StatisticsMatrix{Year: year, Ranges: make([]models.StatisticsMatrixRow, 0, len(starts))}
	for _, start := range starts {
		matrix.Ranges = append(matrix.Ranges, *rows[start])
	}
	return matrix, nil
}

// ExportCSV renders the yearly matrix as CSV.
func (s *StatisticsService) ExportCSV(ctx context.Context, year int) ([]byte, error) {
	matrix, err := s.YearlyMatrix(ctx, year)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(matrixDataset(matrix))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return data, nil
}

// ExportPDF renders the yearly matrix as a PDF table.
func (s *StatisticsService) ExportPDF(ctx context.Context, year int) ([]byte, error) {
	matrix, err := s.YearlyMatrix(ctx, year)
	if err != nil {
		return nil, err
	}
	data, err := s.pdf.Render(matrixDataset(matrix), fmt.Sprintf("Borrow Statistics %d", matrix.Year))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return data, nil
}

var monthHeaders = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func matrixDataset(matrix *models.StatisticsMatrix) export.Dataset {
	headers := append([]string{"Range"}, monthHeaders...)
	rows := make([]map[string]string, 0, len(matrix.Ranges))
	for _, r := range matrix.Ranges {
		row := map[string]string{"Range": fmt.Sprintf("%03d-%03d", r.RangeStart, r.RangeEnd)}
		for i, h := range monthHeaders {
			row[h] = strconv.Itoa(r.Months[i])
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

// deweyRange maps a call number onto its Dewey hundred-range by its
// leading digits. At most three digits are read and the class is
// clamped to 0..999, so "025.04 REF" lands in 000-099 and "813.54" in
// 800-899.
func deweyRange(callNumber string) (start, end int, ok bool) {
	digits := ""
	for _, ch := range callNumber {
		if !unicode.IsDigit(ch) {
			break
		}
		digits += string(ch)
		if len(digits) == 3 {
			break
		}
	}
	if digits == "" {
		return 0, 0, false
	}
	class, err := strconv.Atoi(digits)
	if err != nil {
		return 0, 0, false
	}
	if class > 999 {
		class = 999
	}
	start = class / 100 * 100
	return start, start + 99, true
}
