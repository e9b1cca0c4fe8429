package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	n int
	s string
}

func TestApplyInOrder(t *testing.T) {
	cfg := testConfig{n: 1}
	err := Apply(&cfg,
		NoError(func(c *testConfig) { c.n = 2 }),
		NoError(func(c *testConfig) { c.s = "x" }),
		NoError(func(c *testConfig) { c.n = 3 }),
	)
	require.NoError(t, err)
	assert.Equal(t, testConfig{n: 3, s: "x"}, cfg)
}

func TestApplyStopsAtError(t *testing.T) {
	boom := errors.New("boom")
	cfg := testConfig{}
	err := Apply(&cfg,
		New(func(c *testConfig) error { c.n = 1; return nil }),
		New(func(c *testConfig) error { return boom }),
		NoError(func(c *testConfig) { c.n = 99 }),
	)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, cfg.n)
}

func TestApplySkipsNil(t *testing.T) {
	cfg := testConfig{}
	err := Apply(&cfg, nil, NoError(func(c *testConfig) { c.n = 7 }), nil)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.n)
}
