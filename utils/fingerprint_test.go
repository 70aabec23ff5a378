package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestU64ToBytes(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1}, U64ToBytes(1))
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		U64ToBytes(0x0102030405060708))
}

func TestFingerprintString(t *testing.T) {
	assert.Equal(t, FingerprintString("select"), FingerprintString("select"))
	assert.NotEqual(t, FingerprintString("select"), FingerprintString("insert"))
}

func TestMix64OrderSensitive(t *testing.T) {
	a, b := FingerprintString("a"), FingerprintString("b")
	assert.Equal(t, Mix64(a, b), Mix64(a, b))
	assert.NotEqual(t, Mix64(a, b), Mix64(b, a))
}
