package streaming

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ExplicitBoundsRoundTrip(t *testing.T) {
	for _, size := range []int64{1, 2, 7, 100, 1000} {
		for start := int64(0); start < size; start += max(1, size/7) {
			for end := start; end < size; end += max(1, size/5) {
				got, err := Parse(fmt.Sprintf("bytes=%d-%d", start, end), size)
				require.NoError(t, err)
				assert.Equal(t, ByteRange{Start: start, End: end, Size: size}, got)
			}
		}
	}
}

func TestParse_StartAtSizeIsUnsatisfiable(t *testing.T) {
	for _, size := range []int64{1, 10, 1000, 1 << 40} {
		_, err := Parse(fmt.Sprintf("bytes=%d-", size), size)
		assert.ErrorIs(t, err, ErrUnsatisfiable, "size %d", size)
	}
}

func TestParse_OpenEndDefaultsToLastByte(t *testing.T) {
	got, err := Parse("bytes=0-", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Start)
	assert.Equal(t, int64(99), got.End)
	assert.Equal(t, int64(100), got.Len())
	assert.Equal(t, "bytes 0-99/100", got.ContentRange())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		header string
		size   int64
		want   error
	}{
		{"no unit", "0-10", 100, ErrUnparseable},
		{"other unit", "items=0-10", 100, ErrUnparseable},
		{"empty set", "bytes=", 100, ErrUnparseable},
		{"suffix range", "bytes=-10", 100, ErrUnparseable},
		{"signed start", "bytes=+1-10", 100, ErrUnparseable},
		{"garbage end", "bytes=1-x", 100, ErrUnparseable},
		{"three fields", "bytes=1-2-3", 100, ErrUnparseable},
		{"multi range", "bytes=0-1,4-5", 100, ErrMultiRange},
		{"end before start", "bytes=10-5", 100, ErrUnsatisfiable},
		{"end past size", "bytes=0-100", 100, ErrUnsatisfiable},
		{"empty object", "bytes=0-", 0, ErrUnsatisfiable},
		{"overflow", "bytes=99999999999999999999-", 100, ErrUnsatisfiable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.header, tt.size)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_MultiRangeIsUnparseable(t *testing.T) {
	_, err := Parse("bytes=0-1,2-3", 10)
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestParseSpec_Variants(t *testing.T) {
	spec, err := ParseSpec(" bytes=5- ")
	require.NoError(t, err)
	assert.Equal(t, SingleRange{Start: 5, End: -1}, spec)

	spec, err = ParseSpec("bytes=5")
	require.NoError(t, err)
	assert.Equal(t, SingleRange{Start: 5, End: -1}, spec)

	spec, err = ParseSpec("bytes=0-1,3-4")
	require.NoError(t, err)
	assert.Equal(t, MultiRange{Raw: []string{"0-1", "3-4"}}, spec)
}

func TestUnsatisfiedRange(t *testing.T) {
	assert.Equal(t, "bytes */1000", UnsatisfiedRange(1000))
}
