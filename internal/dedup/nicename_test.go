package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestNiceName_AbsentInput(t *testing.T) {
	assert.False(t, NiceName(nil))
	assert.False(t, NiceName(strPtr("")))
}

func TestNiceName_EmailLikeNamesAreNotNice(t *testing.T) {
	assert.False(t, NiceName(strPtr("jane.doe@example.com")))
	assert.False(t, NiceName(strPtr("Jane Doe @ school")))
}

func TestNiceName_DigitsAndDotsDisqualify(t *testing.T) {
	assert.False(t, NiceName(strPtr("jane.doe")))
	assert.False(t, NiceName(strPtr("janedoe123")))
	assert.False(t, NiceName(strPtr("Jane Doe 2")))
	assert.False(t, NiceName(strPtr("J.Doe")))
}

func TestNiceName_HumanShapedNamesAreNice(t *testing.T) {
	assert.True(t, NiceName(strPtr("Jane Doe")))
	assert.True(t, NiceName(strPtr("Jane")))     // uppercase suffices
	assert.True(t, NiceName(strPtr("jane doe"))) // whitespace suffices
}

func TestNiceName_LowercaseSingleTokenIsNotNice(t *testing.T) {
	assert.False(t, NiceName(strPtr("janedoe")))
}
