package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRoundTripsString(t *testing.T) {
	v, err := Parse("1.2.3")
	require.NoError(t, err)
	require.Equal(t, Version{1, 2, 3}, v)
	require.Equal(t, "1.2.3", v.String())
}

func TestParseRejectsMalformedInput(t *testing.T) {
	cases := []string{"1.2", "1.2.3.4", "a.b.c", ""}
	for _, c := range cases {
		_, err := Parse(c)
		require.Error(t, err, c)
	}
}

func TestPackedOrdersByMajorThenMinorThenPatch(t *testing.T) {
	require.Equal(t, uint32(1<<16|0<<8|3), Current.Packed())

	lower := Version{1, 0, 2}
	higher := Version{1, 0, 3}
	require.True(t, higher.Newer(lower))
	require.False(t, lower.Newer(higher))

	require.True(t, (Version{2, 0, 0}).Newer(Version{1, 99, 99}))
}
