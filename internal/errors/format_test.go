package errors

import (
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForCLI_BasicError(t *testing.T) {
	err := OutOfBounds("index 12 out of range [0, 10)")

	result := FormatForCLI(err)

	assert.Contains(t, result, "index 12 out of range [0, 10)")
	assert.Contains(t, result, "ERR_OUT_OF_BOUNDS")
}

func TestFormatForCLI_IncludesDetails(t *testing.T) {
	err := OutOfBounds("index out of range").WithDetail("index", "12")

	result := FormatForCLI(err)

	assert.Contains(t, result, "index: 12")
}

func TestFormatForCLI_NilError(t *testing.T) {
	assert.Empty(t, FormatForCLI(nil))
}

func TestFormatForCLI_WrapsStandardError(t *testing.T) {
	err := stderrors.New("something went wrong")

	result := FormatForCLI(err)

	assert.Contains(t, result, "something went wrong")
	assert.Contains(t, result, "ERR_INTERNAL_INVARIANT")
}

func TestFormatForCLI_IsConcise(t *testing.T) {
	err := InvalidSize("size must be finite")

	result := FormatForCLI(err)

	lines := strings.Split(strings.TrimSpace(result), "\n")
	assert.LessOrEqual(t, len(lines), 5)
}

func TestFormatJSON_BasicError(t *testing.T) {
	err := InvalidArgument("buffer_items must be >= 0").WithDetail("field", "buffer_items")

	data, jsonErr := FormatJSON(err)
	require.NoError(t, jsonErr)

	var result map[string]any
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, "ERR_INVALID_ARGUMENT", result["code"])
	assert.Equal(t, string(KindInvalidArgument), result["kind"])
	assert.Equal(t, "buffer_items must be >= 0", result["message"])

	details, ok := result["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "buffer_items", details["field"])
}

func TestFormatJSON_NilError(t *testing.T) {
	data, err := FormatJSON(nil)

	assert.NoError(t, err)
	assert.Equal(t, "null", strings.TrimSpace(string(data)))
}

func TestFormatJSON_WithCause(t *testing.T) {
	cause := stderrors.New("underlying failure")
	err := Wrap(KindInternalInvariant, cause)

	data, jsonErr := FormatJSON(err)
	require.NoError(t, jsonErr)

	var result map[string]any
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, "underlying failure", result["cause"])
}

func TestFormatJSON_StandardError(t *testing.T) {
	data, jsonErr := FormatJSON(stderrors.New("generic error"))
	require.NoError(t, jsonErr)

	var result map[string]any
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, "ERR_INTERNAL_INVARIANT", result["code"])
	assert.Equal(t, "generic error", result["message"])
}

func TestFormatForLog_BasicError(t *testing.T) {
	err := OutOfBounds("chunk index out of range").WithDetail("chunk_index", "7")

	result := FormatForLog(err)

	assert.Equal(t, "ERR_OUT_OF_BOUNDS", result["error_code"])
	assert.Equal(t, string(KindOutOfBounds), result["kind"])
	assert.Equal(t, "chunk index out of range", result["message"])
	assert.Equal(t, "7", result["detail_chunk_index"])
}

func TestFormatForLog_NilError(t *testing.T) {
	assert.Nil(t, FormatForLog(nil))
}

func TestFormatForLog_StandardError(t *testing.T) {
	result := FormatForLog(stderrors.New("plain failure"))

	assert.Equal(t, "plain failure", result["error"])
}

func TestFormatForLog_IncludesCause(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(KindInvalidSize, cause)

	result := FormatForLog(err)

	assert.Equal(t, "root cause", result["cause"])
}
