package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Client ")
	require.NoError(t, err)
	assert.Equal(t, RoleClient, role)

	role, err = ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	_, err = ParseRole("staff")
	assert.Error(t, err)
	assert.False(t, Role("staff").Valid())
}

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Ahmad Samir", User{FirstName: "Ahmad", LastName: "Samir", Username: "as"}.FullName())
	assert.Equal(t, "Ahmad", User{FirstName: "Ahmad", Username: "as"}.FullName())
	assert.Equal(t, "as", User{Username: "as"}.FullName())
}

func TestValidRating(t *testing.T) {
	for _, v := range []int{1, 2, 3, 4, 5} {
		assert.True(t, ValidRating(v), "rating %d", v)
	}
	for _, v := range []int{-1, 0, 6, 10} {
		assert.False(t, ValidRating(v), "rating %d", v)
	}
}
