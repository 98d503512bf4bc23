package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelMatching(t *testing.T) {
	t.Run("sentinels match themselves", func(t *testing.T) {
		assert.ErrorIs(t, ErrRecipientNotFound, ErrRecipientNotFound)
	})

	t.Run("wrapped storage errors keep their cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := ErrStorage(cause)

		assert.ErrorIs(t, err, cause)

		var appErr *AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, CodeInternal, appErr.Code)
	})

	t.Run("different codes do not match", func(t *testing.T) {
		assert.NotErrorIs(t, ErrRecipientNotFound, ErrUsernameTaken)
	})

	t.Run("error string includes the cause", func(t *testing.T) {
		err := Wrap(CodeInternal, "storage failure", errors.New("timeout"))
		assert.Contains(t, err.Error(), "timeout")
		assert.Contains(t, err.Error(), "storage failure")
	})
}
