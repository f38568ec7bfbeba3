package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type searchConfig struct {
	earlyAbort int
	pipelines  []string
	applied    []string
}

var errNegative = errors.New("negative size")

func withEarlyAbort(n int) Option[*searchConfig] {
	return New(func(c *searchConfig) error {
		if n < 0 {
			return errNegative
		}
		c.earlyAbort = n
		c.applied = append(c.applied, "early_abort")

		return nil
	})
}

func withPipelines(specs ...string) Option[*searchConfig] {
	return NoError(func(c *searchConfig) {
		c.pipelines = specs
		c.applied = append(c.applied, "pipelines")
	})
}

func TestApply(t *testing.T) {
	c := &searchConfig{}
	err := Apply(c, withPipelines("bwt-mtf"), withEarlyAbort(400))
	require.NoError(t, err)
	require.Equal(t, 400, c.earlyAbort)
	require.Equal(t, []string{"bwt-mtf"}, c.pipelines)
	require.Equal(t, []string{"pipelines", "early_abort"}, c.applied)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	c := &searchConfig{}
	err := Apply(c, withEarlyAbort(-1), withPipelines("rle"))
	require.ErrorIs(t, err, errNegative)
	require.Empty(t, c.applied)
}

func TestApplySkipsNil(t *testing.T) {
	c := &searchConfig{}
	require.NoError(t, Apply(c, nil, withEarlyAbort(10)))
	require.Equal(t, 10, c.earlyAbort)
}

func TestApplyNoOptions(t *testing.T) {
	c := &searchConfig{earlyAbort: 7}
	require.NoError(t, Apply(c))
	require.Equal(t, 7, c.earlyAbort)
}
