package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	code, known, ok := ErrorCode(fmt.Errorf("load tool: %w", ErrToolNotFound))
	assert.True(t, ok)
	assert.Equal(t, NotFound, code)
	assert.Equal(t, ErrToolNotFound, known)

	code, known, ok = ErrorCode(errors.New("mongo: connection reset"))
	assert.False(t, ok)
	assert.Equal(t, InternalServerError, code)
	assert.Equal(t, UnExpectedError, known)
}

func TestErrorCode_JoinedErrorsResolveByPriority(t *testing.T) {
	joined := errors.Join(ErrPreviewUnavailable, ErrForbidden, ErrToolNotFound)
	for i := 0; i < 50; i++ {
		code, known, ok := ErrorCode(joined)
		assert.True(t, ok)
		assert.Equal(t, Forbidden, code)
		assert.Equal(t, ErrForbidden, known)
	}

	code, known, _ := ErrorCode(errors.Join(ErrInvalidRating, ErrUserNotFound))
	assert.Equal(t, NotFound, code)
	assert.Equal(t, ErrUserNotFound, known)
}
