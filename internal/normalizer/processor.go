package normalizer

import (
	"time"

	"phishtakedown/internal/models"
)

// Processor runs one row through empty-check, normalize, dedup, validate and
// accept, in that order. It owns the run's Deduplicator.
type Processor struct {
	validator *Validator
	dedup     *Deduplicator
	key       DedupKey
}

// NewProcessor creates a processor that deduplicates by key.
func NewProcessor(key DedupKey) *Processor {
	if key == "" {
		key = DedupByDomain
	}

	return &Processor{
		validator: NewValidator(),
		dedup:     NewDeduplicator(),
		key:       key,
	}
}

// Process decides the outcome of row. Failures are returned in the Outcome,
// never as a panic or error, so a bad row cannot stop the batch.
func (p *Processor) Process(row models.RawRow, now time.Time) models.Outcome {
	// 1. Empty check and normalization
	n, err := Normalize(row.URL)
	if err != nil {
		return models.Outcome{Skip: models.SkipEmpty, Err: err}
	}

	// 2. Duplicate check against everything accepted so far
	key := p.key.Of(n)
	if p.dedup.Seen(key) {
		return models.Outcome{Skip: models.SkipDuplicate}
	}

	// 3. Structural validation
	finding, err := p.validator.Validate(n, row.Source, now)
	if err != nil {
		return models.Outcome{Skip: models.SkipInvalid, Err: err}
	}

	// 4. Accept
	p.dedup.Record(key)

	return models.Outcome{Finding: &finding}
}

// Seen returns the number of distinct keys accepted so far.
func (p *Processor) Seen() int {
	return p.dedup.Len()
}
