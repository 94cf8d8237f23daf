package sparrow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcschoo/Sparrow"
)

func TestParseObject(t *testing.T) {
	for _, in := range []string{`{}`, `{"job":"x"}`, " \n{\"a\":[1,2]}\t", `{"n":null}`} {
		got, err := sparrow.ParseObject([]byte(in))
		require.NoError(t, err, in)
		assert.Equal(t, in, string(got), "payload must be kept byte-for-byte")
	}
}

func TestParseObject_Rejects(t *testing.T) {
	tests := map[string]string{
		"empty":     ``,
		"blank":     "   ",
		"array":     `[{"a":1}]`,
		"string":    `"x"`,
		"number":    `3`,
		"null":      `null`,
		"truncated": `{"job":`,
		"trailing":  `{"a":1} {"b":2}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := sparrow.ParseObject([]byte(in))
			assert.ErrorIs(t, err, sparrow.ErrInvalidPayload)
		})
	}
}

func TestParseValue(t *testing.T) {
	for _, in := range []string{`{}`, `[]`, `"s"`, `1`, `null`, `true`} {
		_, err := sparrow.ParseValue([]byte(in))
		assert.NoError(t, err, in)
	}
	_, err := sparrow.ParseValue([]byte("<html>"))
	assert.Error(t, err)
}
