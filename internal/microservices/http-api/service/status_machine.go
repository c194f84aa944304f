package service

import (
	"slices"

	"eshelf/internal/microservices/http-api/models"
)

// transitions lists the legal next states for each state. A state missing
// from the map is terminal. Staying in the same state is always legal.
type transitions map[string][]string

var donationTransitions = transitions{
	models.DonationPending:   {models.DonationCompleted, models.DonationFailed},
	models.DonationCompleted: {models.DonationRefunded},
	models.DonationFailed:    nil,
	models.DonationRefunded:  nil,
}

var feedbackTransitions = transitions{
	models.FeedbackPending:    {models.FeedbackProcessing, models.FeedbackResolved, models.FeedbackRejected},
	models.FeedbackProcessing: {models.FeedbackResolved, models.FeedbackRejected},
	models.FeedbackResolved:   nil,
	models.FeedbackRejected:   nil,
}

func (t transitions) known(state string) bool {
	_, ok := t[state]
	return ok
}

func (t transitions) allows(from, to string) bool {
	if from == to {
		return true
	}
	return slices.Contains(t[from], to)
}

// check validates a move of entity from one state to another.
func (t transitions) check(entity, from, to string) error {
	if !t.known(to) {
		return validationf("unknown %s status %q", entity, to)
	}
	if !t.allows(from, to) {
		return validationf("cannot move %s from %s to %s", entity, from, to)
	}
	return nil
}
