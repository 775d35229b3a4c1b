package ingest

import (
	"time"

	"github.com/google/uuid"

	"phishtakedown/internal/logger"
	"phishtakedown/internal/models"
	"phishtakedown/internal/normalizer"
)

// Options configures an Ingestor.
type Options struct {
	// Clock defaults to time.Now.
	Clock   func() time.Time
	Logger  *logger.Logger
	DedupBy normalizer.DedupKey
}

// Rejection records a row that was skipped as invalid, for diagnostics.
type Rejection struct {
	Err    error
	URL    string
	Reason models.SkipReason
	Line   int
}

// Result is the outcome of one ingestion run.
type Result struct {
	RunID      string
	Findings   []models.Finding
	Rejections []Rejection
	Report     models.IngestionReport
}

// Ingestor drives a batch of rows through the normalizer, one row at a time
// in input order.
type Ingestor struct {
	clock   func() time.Time
	log     *logger.Logger
	dedupBy normalizer.DedupKey
}

// NewIngestor creates an ingestor from opts.
func NewIngestor(opts Options) *Ingestor {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	dedupBy := opts.DedupBy
	if dedupBy == "" {
		dedupBy = normalizer.DedupByDomain
	}

	return &Ingestor{
		clock:   clock,
		log:     log,
		dedupBy: dedupBy,
	}
}

// Run processes rows and returns the accepted findings with a report. Row
// failures are counted and logged; Run itself never fails.
func (in *Ingestor) Run(rows []models.RawRow) Result {
	res := Result{RunID: uuid.NewString()}
	log := in.log.With("run_id", res.RunID)
	processor := normalizer.NewProcessor(in.dedupBy)

	log.Info("ingestion started", "rows", len(rows), "dedup_by", string(in.dedupBy))

	var last time.Time

	for _, row := range rows {
		now := in.clock().UTC()
		if now.Before(last) {
			now = last
		}

		last = now

		outcome := processor.Process(row, now)
		res.Report.Count(outcome)

		switch outcome.Skip {
		case models.SkipNone:
			res.Findings = append(res.Findings, *outcome.Finding)
		case models.SkipInvalid:
			res.Rejections = append(res.Rejections, Rejection{
				Line:   row.Line,
				URL:    row.URL,
				Reason: outcome.Skip,
				Err:    outcome.Err,
			})
			log.Warn("skipping invalid url", "line", row.Line, "url", row.URL, "error", outcome.Err)
		case models.SkipDuplicate:
			log.Debug("skipping duplicate", "line", row.Line, "url", row.URL)
		case models.SkipEmpty:
			log.Debug("skipping empty url", "line", row.Line, "source", row.Source)
		}
	}

	log.Info("ingestion finished", "report", res.Report.String(), "distinct", processor.Seen())

	return res
}
