package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_HappyPath(t *testing.T) {
	s := SearchingBusiness
	for _, ev := range []Event{SelectBusiness, StartDescribing, Review, Confirm, Succeed} {
		var err error
		s, err = Next(s, ev)
		require.NoError(t, err, ev)
	}
	assert.Equal(t, Done, s)
	assert.True(t, s.Terminal())
}

func TestNext_CloseReviewReturnsToDescribing(t *testing.T) {
	s, err := Next(ReviewingPayload, CloseReview)
	require.NoError(t, err)
	assert.Equal(t, CategorizingAndDescribing, s)
}

func TestNext_FailureNeedsManualResubmit(t *testing.T) {
	s, err := Next(Submitting, Fail)
	require.NoError(t, err)
	assert.Equal(t, Failed, s)

	_, err = Next(Failed, Confirm)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	s, err = Next(Failed, Review)
	require.NoError(t, err)
	assert.Equal(t, ReviewingPayload, s)
}

func TestNext_InvalidTransitions(t *testing.T) {
	tests := map[string]struct {
		from State
		ev   Event
	}{
		"confirm before review":  {from: CategorizingAndDescribing, ev: Confirm},
		"succeed while editing":  {from: ReviewingPayload, ev: Succeed},
		"describe without place": {from: SearchingBusiness, ev: StartDescribing},
		"anything after done":    {from: Done, ev: Review},
		"close review twice":     {from: CategorizingAndDescribing, ev: CloseReview},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := Next(tt.from, tt.ev)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.from, s)
		})
	}
}

func TestNext_RestartFromAnywhere(t *testing.T) {
	for _, s := range []State{BusinessSelected, ReviewingPayload, Submitting, Done, Failed} {
		next, err := Next(s, Restart)
		require.NoError(t, err)
		assert.Equal(t, SearchingBusiness, next)
	}
}

func TestParseState(t *testing.T) {
	s, err := ParseState("")
	require.NoError(t, err)
	assert.Equal(t, SearchingBusiness, s)

	s, err = ParseState("reviewing_payload")
	require.NoError(t, err)
	assert.Equal(t, 4, s.Step())

	_, err = ParseState("hacked")
	assert.ErrorIs(t, err, ErrUnknownState)
}
