package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVIN_Valid(t *testing.T) {
	// Known-good VIN with a correct 'X' check digit.
	r := VIN("1HGBH41JXMN109186")
	assert.True(t, r.IsValid)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
	assert.Equal(t, 100, r.Confidence)
}

func TestVIN_LowercaseAccepted(t *testing.T) {
	r := VIN("1hgbh41jxmn109186")
	assert.True(t, r.IsValid)
	assert.Equal(t, 100, r.Confidence)
}

func TestVIN_WrongLength(t *testing.T) {
	r := VIN("1HGBH41JXMN10918")
	require.False(t, r.IsValid)
	assert.Equal(t, 0, r.Confidence)
	assert.Contains(t, r.Errors[0], "17 characters")
}

func TestVIN_InvalidCharacter(t *testing.T) {
	r := VIN("1HGBH41JXMN10918*")
	require.False(t, r.IsValid)
	assert.Equal(t, 0, r.Confidence)
	assert.Contains(t, r.Errors[0], "invalid character")
}

func TestVIN_IOQWarnsButPasses(t *testing.T) {
	// 'O' is never used in VINs; it is a common OCR misread of '0', so the
	// VIN stays usable with a warning.
	r := VIN("1HGBH41JXMN1O9186")
	assert.True(t, r.IsValid)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "I/O/Q")
	assert.Equal(t, 85, r.Confidence)
}

func TestVIN_CheckDigitMismatchWarns(t *testing.T) {
	// Last digit changed from the valid VIN; the check digit no longer
	// matches but the VIN may still be usable.
	r := VIN("1HGBH41JXMN109187")
	assert.True(t, r.IsValid)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "check digit")
	assert.Equal(t, 85, r.Confidence)
}

func TestCheckDigitValid_RemainderTen(t *testing.T) {
	// 1HGBH41JXMN109186 sums to 340; 340 mod 11 = 10, written as 'X'.
	assert.True(t, checkDigitValid("1HGBH41JXMN109186"))
	assert.False(t, checkDigitValid("1HGBH41J0MN109186"))
}
