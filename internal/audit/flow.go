// Package audit models the steps of the public location audit form.
package audit

import (
	"errors"
	"fmt"
)

// State is a step of the audit form.
type State string

const (
	SearchingBusiness         State = "searching_business"
	BusinessSelected          State = "business_selected"
	CategorizingAndDescribing State = "categorizing_and_describing"
	ReviewingPayload          State = "reviewing_payload"
	Submitting                State = "submitting"
	Done                      State = "done"
	Failed                    State = "failed"
)

// Event moves the form from one state to another.
type Event string

const (
	SelectBusiness  Event = "select_business"
	StartDescribing Event = "start_describing"
	Review          Event = "review"
	CloseReview     Event = "close_review"
	Confirm         Event = "confirm"
	Succeed         Event = "succeed"
	Fail            Event = "fail"
	Restart         Event = "restart"
)

// ErrInvalidTransition is returned for an event the current state does not accept.
var ErrInvalidTransition = errors.New("invalid audit transition")

// ErrUnknownState is returned by ParseState for values outside the state set.
var ErrUnknownState = errors.New("unknown audit state")

var transitions = map[State]map[Event]State{
	SearchingBusiness: {
		SelectBusiness: BusinessSelected,
	},
	BusinessSelected: {
		SelectBusiness:  BusinessSelected,
		StartDescribing: CategorizingAndDescribing,
	},
	CategorizingAndDescribing: {
		Review: ReviewingPayload,
	},
	ReviewingPayload: {
		CloseReview: CategorizingAndDescribing,
		Confirm:     Submitting,
	},
	Submitting: {
		Succeed: Done,
		Fail:    Failed,
	},
	// A failed submission is not retried; the user reviews and confirms again.
	Failed: {
		Review: ReviewingPayload,
	},
	Done: {},
}

// ParseState validates a state carried in a form field. Empty means a new flow.
func ParseState(raw string) (State, error) {
	if raw == "" {
		return SearchingBusiness, nil
	}
	s := State(raw)
	if _, ok := transitions[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownState, raw)
	}
	return s, nil
}

// Next returns the state reached by applying ev to s. Restart is accepted everywhere.
func Next(s State, ev Event) (State, error) {
	if ev == Restart {
		return SearchingBusiness, nil
	}
	if next, ok := transitions[s][ev]; ok {
		return next, nil
	}
	return s, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, s)
}

// Terminal reports whether no further events except Restart are accepted.
func (s State) Terminal() bool {
	return s == Done
}

// Step is the 1-based position shown in the progress indicator.
func (s State) Step() int {
	switch s {
	case SearchingBusiness:
		return 1
	case BusinessSelected:
		return 2
	case CategorizingAndDescribing:
		return 3
	case ReviewingPayload, Failed:
		return 4
	default:
		return 5
	}
}
