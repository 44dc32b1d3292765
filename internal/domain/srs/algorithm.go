package srs

import (
	"math"
	"time"

	"github.com/wordtrail/wordtrail/internal/domain"
)

// calculateNewEaseFactor applies the SM-2 ease adjustment for a review of
// the given quality and clamps the result to the configured bounds.
//
// The adjustment is ef + (0.1 - (5-q)*(0.08 + (5-q)*0.02)): quality 5
// raises the ease factor slightly, quality 4 leaves it unchanged, and
// anything lower pulls it down. The adjustment applies on pass and fail
// alike.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	q := float64(quality)
	newEF := currentEF + (0.1 - (5-q)*(0.08+(5-q)*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	if newEF > params.MaxEaseFactor {
		newEF = params.MaxEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the next interval in days for a passing
// review. repetitions is the count after the current pass has been applied,
// and easeFactor is the already-updated ease factor.
//
// The progression is the classic SM-2 ladder: 1 day after the first pass,
// 6 days after the second, then the previous interval scaled by the ease
// factor and rounded to the nearest day.
func calculateNewInterval(
	currentInterval int,
	repetitions int,
	easeFactor float64,
	params *Params,
) int {
	switch repetitions {
	case 1:
		return params.FirstInterval
	case 2:
		return params.SecondInterval
	default:
		return int(math.Round(float64(currentInterval) * easeFactor))
	}
}

// advanceStatus returns the status a card holds after a passing review,
// given its new interval. Promotions chain within a single review: a card
// whose interval clears both thresholds moves through review to graduated.
func advanceStatus(current domain.CardStatus, newInterval int, params *Params) domain.CardStatus {
	status := current
	if status == domain.CardStatusNew {
		status = domain.CardStatusLearning
	}
	if status == domain.CardStatusLearning && newInterval >= params.ReviewThresholdDays {
		status = domain.CardStatusReview
	}
	if status == domain.CardStatusReview && newInterval >= params.GraduatedThresholdDays {
		status = domain.CardStatusGraduated
	}
	return status
}

// demoteStatus returns the status a card holds after a failing review.
// New cards stay new; suspended cards are untouched; everything else
// drops back to learning.
func demoteStatus(current domain.CardStatus) domain.CardStatus {
	switch current {
	case domain.CardStatusNew, domain.CardStatusSuspended:
		return current
	default:
		return domain.CardStatusLearning
	}
}

// calculateNextCard produces the card state that follows a review, without
// mutating the input. The caller guarantees the assessment is valid.
//
// The update is fully determined by (card, assessment, now): the only
// clock read is the injected now value.
func calculateNextCard(
	card *domain.Card,
	assessment domain.Assessment,
	now time.Time,
	params *Params,
) *domain.Card {
	quality, _ := assessment.Quality()
	next := card.Clone()

	next.TotalReviews++
	next.EaseFactor = calculateNewEaseFactor(card.EaseFactor, quality, params)

	if quality >= 3 {
		next.CorrectReviews++
		next.Repetitions = card.Repetitions + 1
		next.Interval = calculateNewInterval(
			card.Interval,
			next.Repetitions,
			next.EaseFactor,
			params,
		)
		next.Status = advanceStatus(card.Status, next.Interval, params)
	} else {
		next.Repetitions = 0
		next.Interval = 1
		next.Status = demoteStatus(card.Status)
	}

	next.NextReviewAt = domain.StartOfDay(now.AddDate(0, 0, next.Interval))
	next.UpdatedAt = now.UTC()

	return next
}
