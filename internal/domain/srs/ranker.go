package srs

import (
	"sort"
	"time"

	"github.com/wordtrail/wordtrail/internal/domain"
)

// Ranker scoring constants. The base score places every due card in the
// middle of the 0-100 range; the bonuses push overdue, new, difficult and
// high-priority cards toward the front of the queue.
const (
	baseScore            = 50
	overduePointsPerDay  = 10
	maxOverdueDays       = 4
	newCardBonus         = 20
	difficultCardBonus   = 15
	highPriorityBonus    = 10
	difficultEaseCutoff  = 2.0
	highPriorityCutoff   = 7
	maxScore             = 100
)

// Score rates how urgently a card should be presented, in [0, 100].
// Overdue days beyond maxOverdueDays earn no further points.
func Score(card *domain.Card, now time.Time) int {
	score := baseScore

	overdue := daysOverdue(card, now)
	if overdue > maxOverdueDays {
		overdue = maxOverdueDays
	}
	score += overdue * overduePointsPerDay

	if card.Status == domain.CardStatusNew {
		score += newCardBonus
	}
	if card.EaseFactor < difficultEaseCutoff {
		score += difficultCardBonus
	}
	if card.Context.Priority > highPriorityCutoff {
		score += highPriorityBonus
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}

// Rank orders cards for presentation: score descending, then earlier next
// review date, then original slice position. The sort is stable so cards
// with equal priority never reorder nondeterministically. The input slice
// is not modified.
func Rank(cards []*domain.Card, now time.Time) []*domain.Card {
	ranked := make([]*domain.Card, len(cards))
	copy(ranked, cards)

	scores := make(map[*domain.Card]int, len(ranked))
	for _, card := range ranked {
		scores[card] = Score(card, now)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if scores[ranked[i]] != scores[ranked[j]] {
			return scores[ranked[i]] > scores[ranked[j]]
		}
		return ranked[i].NextReviewAt.Before(ranked[j].NextReviewAt)
	})

	return ranked
}

// daysOverdue returns how many whole days past due the card is at the
// given time, never negative.
func daysOverdue(card *domain.Card, now time.Time) int {
	diff := domain.StartOfDay(now).Sub(domain.StartOfDay(card.NextReviewAt))
	if diff <= 0 {
		return 0
	}
	return int(diff.Hours() / 24)
}
