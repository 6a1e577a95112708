package bx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadHelpers(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	assert.Equal(t, uint16(0x0201), U16(b))
	assert.Equal(t, uint32(0x04030201), U32(b))
	assert.Equal(t, uint64(0x0807060504030201), U64(b))
	assert.Equal(t, int64(0x0807060504030201), I64(b))
}

func TestAtHelpers(t *testing.T) {
	b := []byte{0xFF, 0xFF, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	assert.Equal(t, uint16(0x0201), U16At(b, 2))
	assert.Equal(t, uint32(0x04030201), U32At(b, 2))
	assert.Equal(t, uint64(0x0807060504030201), U64At(b, 2))
	assert.Equal(t, int64(0x0807060504030201), I64At(b, 2))
}

func TestAppendRoundTrip(t *testing.T) {
	var b []byte
	b = AppendU16(b, 0xBEEF)
	b = AppendU32(b, 0xDEADBEEF)
	b = AppendU64(b, 0x0123456789ABCDEF)
	b = AppendI64(b, -42)

	assert.Len(t, b, 22)
	assert.Equal(t, uint16(0xBEEF), U16At(b, 0))
	assert.Equal(t, uint32(0xDEADBEEF), U32At(b, 2))
	assert.Equal(t, uint64(0x0123456789ABCDEF), U64At(b, 6))
	assert.Equal(t, int64(-42), I64At(b, 14))
}

func TestAppendGrowsExisting(t *testing.T) {
	b := []byte{0xAA}
	b = AppendU32(b, 7)

	assert.Len(t, b, 5)
	assert.Equal(t, byte(0xAA), b[0])
	assert.Equal(t, uint32(7), U32At(b, 1))
}
