package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_FirstErrorWins(t *testing.T) {
	v := New()
	v.Check(false, "price", "must be greater than zero")
	v.Check(false, "price", "must be provided")
	v.Check(true, "pickup", "must be provided")

	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"price": "must be greater than zero"}, v.Errors)
}

func TestPermittedValue(t *testing.T) {
	assert.True(t, PermittedValue("car", "bike", "rickshaw", "car"))
	assert.False(t, PermittedValue("plane", "bike", "rickshaw", "car"))
}

func TestNotBlank(t *testing.T) {
	assert.False(t, NotBlank(" \t\n"))
	assert.True(t, NotBlank(" hi "))
}
