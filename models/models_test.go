package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	allowed := map[BookingStatus][]BookingStatus{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusCompleted, StatusCancelled},
	}
	all := []BookingStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

	for _, from := range all {
		for _, to := range all {
			err := from.CanTransitionTo(to)
			if contains(allowed[from], to) {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.Error(t, err, "%s -> %s", from, to)
			}
		}
	}
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
}

func contains(list []BookingStatus, s BookingStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestParseCategory(t *testing.T) {
	for _, raw := range []string{"Wedding", "wedding", " WEDDING "} {
		c, err := ParseCategory(raw)
		require.NoError(t, err)
		assert.Equal(t, CategoryWedding, c)
	}
	_, err := ParseCategory("all")
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, r)

	r, err = ParseRole("Seller")
	require.NoError(t, err)
	assert.Equal(t, RoleSeller, r)

	_, err = ParseRole("admin")
	assert.Error(t, err)
}

func TestReviewed(t *testing.T) {
	b := &Booking{}
	assert.False(t, b.Reviewed())
	b.Review = &Review{}
	assert.False(t, b.Reviewed())
	require.NoError(t, b.Review.BeforeCreate(nil))
	assert.True(t, b.Reviewed())
}
