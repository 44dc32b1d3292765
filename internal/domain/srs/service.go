package srs

import (
	"errors"
	"time"

	"github.com/wordtrail/wordtrail/internal/domain"
)

// Common errors
var (
	ErrNilCard           = errors.New("card cannot be nil")
	ErrInvalidAssessment = errors.New("invalid assessment")
	ErrInvalidDays       = errors.New("postpone days must be at least 1")
)

// Service defines the interface for SRS algorithm operations.
// Implementations must be pure with respect to the injected now value:
// identical inputs always produce identical outputs.
type Service interface {
	// Update computes the card state that follows a review outcome.
	Update(
		card *domain.Card,
		assessment domain.Assessment,
		now time.Time,
	) (*domain.Card, error)

	// Postpone pushes the next review date forward by a number of days
	// without recording a review.
	Postpone(
		card *domain.Card,
		days int,
		now time.Time,
	) (*domain.Card, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Update implements the Service interface for review updates.
func (s *defaultService) Update(
	card *domain.Card,
	assessment domain.Assessment,
	now time.Time,
) (*domain.Card, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if !assessment.Valid() {
		return nil, ErrInvalidAssessment
	}

	return calculateNextCard(card, assessment, now, s.params), nil
}

// Postpone implements the Service interface for postponing reviews.
func (s *defaultService) Postpone(
	card *domain.Card,
	days int,
	now time.Time,
) (*domain.Card, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	next := card.Clone()
	next.NextReviewAt = next.NextReviewAt.AddDate(0, 0, days)
	next.UpdatedAt = now.UTC()

	return next, nil
}
