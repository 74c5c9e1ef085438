package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseArgsAsBatch_SimpleArgs(t *testing.T) {
	result, err := parseArgsAsBatch([]string{"1=1", "2=2"})
	assert.Equal(t, nil, err, "unexpected error")
	assert.Equal(t, "1=1, 2=2", result, "result mismatch")
}

func TestParseArgsAsBatch_EmptyArgs(t *testing.T) {
	_, err := parseArgsAsBatch([]string{})
	assert.NotNil(t, err, "expected error for empty args")
}

func TestParseArgsAsBatch_Stdin(t *testing.T) {
	stdinContent := "3=1\n4=2\n"

	// mocking
	originalStdin := os.Stdin
	r, w, _ := os.Pipe()
	w.WriteString(stdinContent)
	w.Close()
	os.Stdin = r
	defer func() { os.Stdin = originalStdin }() // restore original after the test is done

	result, err := parseArgsAsBatch([]string{"1=1", "-"})
	assert.Equal(t, nil, err, "unexpected error")
	assert.Contains(t, result, "1=1", "expected leading arg in result")
	assert.Contains(t, result, "3=1", "expected stdin content in result")
}
