package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/xerrors"
)

func TestRejection(t *testing.T) {
	notEnded := Reject("Auction has not ended")
	tooEarly := errors.New("deadline not reached")

	err := notEnded.Because(tooEarly)
	assert.Equal(t, "Auction has not ended", err.Error())
	assert.True(t, errors.Is(err, notEnded))
	assert.True(t, errors.Is(err, tooEarly))
	assert.False(t, errors.Is(err, ErrForbidden))

	wrapped := xerrors.Errorf("end failed: %w", err)
	assert.True(t, errors.Is(wrapped, notEnded))
	assert.True(t, IsRejection(wrapped))
	assert.False(t, IsRejection(ErrNotFound))

	forbidden := Reject("Only admin can end auctions", ErrForbidden)
	assert.True(t, errors.Is(forbidden, ErrForbidden))
	assert.False(t, errors.Is(forbidden, notEnded))
}
