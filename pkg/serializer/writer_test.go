/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package serializer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type testReport struct {
	Platform string            `json:"platform" yaml:"platform"`
	Ready    bool              `json:"ready" yaml:"ready"`
	Checks   []string          `json:"checks" yaml:"checks"`
	Versions map[string]string `json:"versions" yaml:"versions"`
}

func sampleReport() testReport {
	return testReport{
		Platform: "linux/arm64",
		Ready:    true,
		Checks:   []string{"kubectl", "nerdctl"},
		Versions: map[string]string{"operator": "v0.12.0"},
	}
}

func TestSerializeJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatJSON, &buf)

	require.NoError(t, w.Serialize(sampleReport()))

	var got testReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleReport(), got)
	assert.Contains(t, buf.String(), "  \"platform\"", "expected indented output")
}

func TestSerializeYAMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatYAML, &buf)

	require.NoError(t, w.Serialize(sampleReport()))

	var got testReport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleReport(), got)
}

func TestSerializeTableFlattensNestedFields(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	require.NoError(t, w.Serialize(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "VALUE")
	assert.Contains(t, out, "Platform")
	assert.Contains(t, out, "linux/arm64")
	assert.Contains(t, out, "Checks.[0]")
	assert.Contains(t, out, "Versions.operator")
}

func TestSerializeTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	require.NoError(t, w.Serialize(struct{}{}))

	assert.Equal(t, "<empty>\n", buf.String())
}

func TestSerializeTableScalar(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	require.NoError(t, w.Serialize("ok"))

	assert.Contains(t, buf.String(), defaultValueKey)
	assert.Contains(t, buf.String(), "ok")
}

func TestNewWriterUnknownFormatDefaultsToYAML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(Format("xml"), &buf)

	require.NoError(t, w.Serialize(map[string]string{"key": "value"}))

	var got map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "value", got["key"])
}

func TestNewFileWriterOrStdoutWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	w := NewFileWriterOrStdout(FormatJSON, path)

	require.NoError(t, w.Serialize(sampleReport()))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got testReport
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, sampleReport(), got)
}

func TestNewFileWriterOrStdoutEmptyPathFallsBack(t *testing.T) {
	w := NewFileWriterOrStdout(FormatYAML, "   ")

	require.NotNil(t, w)
	assert.NoError(t, w.Close(), "stdout writer has no closer")
}

func TestNewFileWriterOrStdoutBadPathFallsBack(t *testing.T) {
	w := NewFileWriterOrStdout(FormatYAML, filepath.Join(t.TempDir(), "missing", "report.yaml"))

	require.NotNil(t, w)
	assert.NoError(t, w.Close())
}

func TestCloseFileTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	w := NewFileWriterOrStdout(FormatYAML, path)

	require.NoError(t, w.Serialize(sampleReport()))
	require.NoError(t, w.Close())
	assert.Error(t, w.Close(), "second close reports the already-closed file")
}

func TestFormatIsUnknown(t *testing.T) {
	assert.False(t, FormatJSON.IsUnknown())
	assert.False(t, FormatYAML.IsUnknown())
	assert.False(t, FormatTable.IsUnknown())
	assert.True(t, Format("").IsUnknown())
	assert.True(t, Format("toml").IsUnknown())
}

func TestSupportedFormats(t *testing.T) {
	assert.ElementsMatch(t, []string{"json", "yaml", "table"}, SupportedFormats())
}

func TestFlattenValueNilPointer(t *testing.T) {
	type inner struct{ Name string }
	type outer struct{ Inner *inner }

	flat := make(map[string]any)
	flattenValue(flat, reflect.ValueOf(outer{}), "")

	assert.Contains(t, flat, "Inner")
	assert.Nil(t, flat["Inner"])
}

func TestFlattenValueSkipsUnexported(t *testing.T) {
	type report struct {
		Public  string
		private string //nolint:unused // probing reflect behavior
	}

	flat := make(map[string]any)
	flattenValue(flat, reflect.ValueOf(report{Public: "yes"}), "")

	assert.Equal(t, map[string]any{"Public": "yes"}, flat)
}
