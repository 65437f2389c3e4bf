package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_CollectsItems(t *testing.T) {
	var ve ValidationError
	assert.False(t, ve.HasAny())
	assert.Equal(t, "validation failed", ve.Error())

	ve.Add("site.title", "must not be empty")
	ve.Addf("listing.page_size", "must be >= %d", 0)

	assert.True(t, ve.HasAny())
	assert.True(t, ve.Has("site.title"))
	assert.False(t, ve.Has("site.site_url"))
	assert.Contains(t, ve.Error(), " - site.title: must not be empty\n")
	assert.Contains(t, ve.Error(), " - listing.page_size: must be >= 0\n")
}

func TestValidationError_IsInvalid(t *testing.T) {
	var ve ValidationError
	ve.Add("", "bare message")

	var err error = ve
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Equal(t, "bare message", ve.Items[0].Error())
}
