package webclip_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yult97/webclip"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("returns the code of an application error", func(t *testing.T) {
		t.Parallel()
		err := webclip.Errorf(webclip.ENOTFOUND, "no article found")
		assert.Equal(t, webclip.ENOTFOUND, webclip.ErrorCode(err))
	})

	t.Run("returns EINTERNAL for non-application errors", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, webclip.EINTERNAL, webclip.ErrorCode(errors.New("boom")))
	})

	t.Run("returns empty string for nil", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", webclip.ErrorCode(nil))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("returns the message of an application error", func(t *testing.T) {
		t.Parallel()
		err := webclip.Errorf(webclip.EINVALID, "bad page URL %q", "::")
		assert.Equal(t, `bad page URL "::"`, webclip.ErrorMessage(err))
	})

	t.Run("returns a generic message for non-application errors", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Internal error.", webclip.ErrorMessage(errors.New("boom")))
	})
}
