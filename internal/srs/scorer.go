package srs

import (
	"math"
	"time"

	"github.com/recallkit/recallkit/internal/errors"
	"github.com/recallkit/recallkit/internal/models"
)

// Quality ratings are integer self-assessments in [0,5]. Anything below
// PassingQuality counts as a failed recall and resets the repetition streak.
const (
	MinQuality     = 0
	MaxQuality     = 5
	PassingQuality = 3
)

// Result is the scheduling state produced by scoring one review.
type Result struct {
	Repetitions  int       `json:"repetitions"`
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
	NextReviewAt time.Time `json:"next_review_at"`
}

// Passed reports whether a quality rating counts as a successful recall.
// Quality 3 is a success, not a boundary failure.
func Passed(quality int) bool {
	return quality >= PassingQuality
}

// Score applies the SM-2 update to a card's prior scheduling state.
//
// The ease factor always updates, including on failure, and is clamped to a
// floor of 1.3 with no ceiling: a failed review keeps its freshly lowered
// ease while repetitions and interval reset. Interval growth is compounding,
// so the order of operations here must not change.
func Score(quality, priorRepetitions, priorInterval int, priorEase float64, now time.Time) (Result, error) {
	if quality < MinQuality || quality > MaxQuality {
		return Result{}, errors.NewValidationError("quality", "must be between 0 and 5")
	}

	ease := priorEase + easeDelta(quality)
	if ease < models.MinEase {
		ease = models.MinEase
	}

	var repetitions, interval int
	if !Passed(quality) {
		repetitions = 0
		interval = 1
	} else {
		repetitions = priorRepetitions + 1
		switch {
		case repetitions == 1:
			interval = 1
		case repetitions == 2:
			interval = 6
		default:
			interval = int(math.Round(float64(priorInterval) * ease))
		}
	}

	return Result{
		Repetitions:  repetitions,
		EaseFactor:   ease,
		IntervalDays: interval,
		NextReviewAt: now.AddDate(0, 0, interval),
	}, nil
}

func easeDelta(quality int) float64 {
	q := float64(5 - quality)
	return 0.1 - q*(0.08+q*0.02)
}
