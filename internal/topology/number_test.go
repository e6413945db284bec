//go:build unit

package topology

import (
	"errors"
	"testing"

	"orangebox-setup/internal/provision"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBoxNumber(t *testing.T) {
	t.Run("AcceptsMultiplesOfFour", func(t *testing.T) {
		for _, n := range []int{4, 8, 28, 56, 252} {
			assert.NoError(t, ValidateBoxNumber(n), "number %d", n)
		}
	})

	// The historical check is n/4 < 1, not n%4 != 0: anything >= 4
	// passes. Documented intent and actual behavior differ; the looser
	// boundary is the contract boxes in the field rely on.
	t.Run("AcceptsNonMultiplesAtLeastFour", func(t *testing.T) {
		for _, n := range []int{5, 6, 7, 9, 251} {
			assert.NoError(t, ValidateBoxNumber(n), "number %d", n)
		}
	})

	t.Run("RejectsBelowFour", func(t *testing.T) {
		for _, n := range []int{3, 2, 1, 0, -4} {
			err := ValidateBoxNumber(n)
			require.Error(t, err, "number %d", n)

			var topoErr *provision.InvalidTopologyError
			assert.True(t, errors.As(err, &topoErr), "number %d", n)
		}
	})

	t.Run("RejectsAboveOctetRange", func(t *testing.T) {
		for _, n := range []int{253, 256, 1000} {
			err := ValidateBoxNumber(n)
			require.Error(t, err, "number %d", n)

			var topoErr *provision.InvalidTopologyError
			assert.True(t, errors.As(err, &topoErr), "number %d", n)
		}
	})
}

func TestNumberFromHostname(t *testing.T) {
	t.Run("TrailingDigits", func(t *testing.T) {
		cases := map[string]int{
			"OrangeBox28":  28,
			"OrangeBox4":   4,
			"orangebox100": 100,
			"node01ob56":   56,
		}
		for hostname, want := range cases {
			n, err := NumberFromHostname(hostname)
			require.NoError(t, err, "hostname %s", hostname)
			assert.Equal(t, want, n, "hostname %s", hostname)
		}
	})

	t.Run("NoTrailingDigits", func(t *testing.T) {
		_, err := NumberFromHostname("orangebox")
		require.Error(t, err)

		var topoErr *provision.InvalidTopologyError
		assert.True(t, errors.As(err, &topoErr))
	})
}

func TestParseBoxConf(t *testing.T) {
	t.Run("ValidFile", func(t *testing.T) {
		n, err := ParseBoxConf([]byte("orangebox_number=28\n"))
		require.NoError(t, err)
		assert.Equal(t, 28, n)
	})

	t.Run("CommentsAndBlanksIgnored", func(t *testing.T) {
		n, err := ParseBoxConf([]byte("# box identity\n\norangebox_number=56\n"))
		require.NoError(t, err)
		assert.Equal(t, 56, n)
	})

	t.Run("BadValue", func(t *testing.T) {
		_, err := ParseBoxConf([]byte("orangebox_number=twenty\n"))
		assert.Error(t, err)
	})

	t.Run("MissingKey", func(t *testing.T) {
		_, err := ParseBoxConf([]byte("other_key=1\n"))
		assert.Error(t, err)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		n, err := ParseBoxConf(FormatBoxConf(28))
		require.NoError(t, err)
		assert.Equal(t, 28, n)
	})
}
