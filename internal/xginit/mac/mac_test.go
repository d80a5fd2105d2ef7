package mac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "xginit/pkg/errors"
)

func TestFormat(t *testing.T) {
	s, err := Format(Addr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff})
	require.NoError(t, err)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", s)

	// Single-digit octets must be zero padded.
	s, err = Format(Addr{0x00, 0x01, 0x02, 0x0a, 0x0b, 0x0c})
	require.NoError(t, err)
	assert.Equal(t, "00:01:02:0a:0b:0c", s)
	assert.Len(t, s, 17)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Addr
		wantErr bool
	}{
		{"canonical", "aa:bb:cc:dd:ee:ff", Addr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, false},
		{"uppercase hex", "AA:BB:CC:DD:EE:FF", Addr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, false},
		{"short octets", "0:1:2:a:b:c", Addr{0x00, 0x01, 0x02, 0x0a, 0x0b, 0x0c}, false},
		{"too few groups", "aa:bb:cc:dd:ee", Addr{}, true},
		{"empty", "", Addr{}, true},
		{"not hex", "gg:bb:cc:dd:ee:ff", Addr{}, true},
		{"octet overflow", "1aa:bb:cc:dd:ee:ff", Addr{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, xerrors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat_RoundTrip(t *testing.T) {
	addrs := []Addr{
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff},
		{0x00, 0x0a, 0x35, 0x01, 0x02, 0x03},
		{0x01, 0x23, 0x45, 0x67, 0x89, 0xab},
	}

	for _, a := range addrs {
		s, err := Format(a)
		require.NoError(t, err)

		got, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, a, got, "round trip through %q", s)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		addr   Addr
		want   bool
	}{
		{"empty prefix accepts anything", "", Addr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, true},
		{"empty prefix accepts zero", "", Addr{}, true},
		{"all-zero rejected", "aa", Addr{}, false},
		{"broadcast rejected", "aa", Addr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, false},
		{"multicast bit rejected", "01", Addr{0x01, 0x00, 0x5e, 0x00, 0x00, 0x01}, false},
		{"locally administered group bit rejected", "a", Addr{0xab, 0xcd, 0xef, 0x01, 0x02, 0x03}, false},
		{"prefix match accepted", "aa:bb", Addr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, true},
		{"full address as prefix", "aa:bb:cc:dd:ee:ff", Addr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, true},
		{"prefix mismatch rejected", "aa:bb", Addr{0xaa, 0xcc, 0xcc, 0xdd, 0xee, 0xff}, false},
		{"prefix is case sensitive", "AA:BB", Addr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, false},
		{"unicast non-matching bit patterns accepted", "00", Addr{0x00, 0x0a, 0x35, 0x01, 0x02, 0x03}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.prefix, tt.addr, false)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_PrecedenceOverPrefix(t *testing.T) {
	// An all-zero address is rejected as unset even when it would satisfy
	// the configured prefix.
	assert.False(t, Validate("00", Addr{}, false))
}
