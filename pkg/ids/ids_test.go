package ids

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// Known values cross-checked against the Python tooling's hash.
func TestCalculateKnownValues(t *testing.T) {
	cases := []struct {
		name string
		want uint32
	}{
		{"", 0x00000000},
		{"a", 0x006117e0},
		{"Say", 0x2dcf9e98},
		{"Get", 0x4719c5ed},
		{"Watch", 0x8ba1cad6},
		{"Echo", 0x8b470ee9},
		{"demo.Echo", 0xe17b31f9},
		{"pw.test.Echo", 0xa18014c6},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Calculate(tc.name), "hash of %q", tc.name)
	}
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, "0x00000000", Literal(0))
	assert.Equal(t, "0x8b470ee9", Literal(0x8b470ee9))
	assert.Equal(t, "0x0000000f", Literal(15))
	assert.Equal(t, "0xffffffff", Literal(0xffffffff))
}

func TestCalculateProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("repeated calls agree", prop.ForAll(
		func(name string) bool {
			return Calculate(name) == Calculate(name)
		},
		gen.AnyString(),
	))

	properties.Property("literal is always 10 characters", prop.ForAll(
		func(name string) bool {
			return len(Literal(Calculate(name))) == 10
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
