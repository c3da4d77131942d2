package registryfile

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteParsesBack(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML, FormatHCL} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, wantMixed, format))

			got, err := Descriptors(buf.Bytes(), format, "written")
			require.NoError(t, err, buf.String())
			if diff := cmp.Diff(wantMixed, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteJSONShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, wantMixed, FormatJSON))
	assert.JSONEq(t, `{"functions": [
		"italic",
		{"name": "bold", "optional": false},
		{"name": "b", "brackets": false, "optional": false}
	]}`, buf.String())
}

func TestWriteHCLShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, wantMixed[1:2], FormatHCL))
	assert.Contains(t, buf.String(), `function "bold" {`)
	assert.Contains(t, buf.String(), "optional = false")
	assert.NotContains(t, buf.String(), "brackets")
}
