package registry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []any
		want    []Descriptor
		wantErr string
	}{
		{
			name:    "bare names",
			entries: []any{"italic", "bold"},
			want:    []Descriptor{Bare("italic"), Bare("bold")},
		},
		{
			name: "structured defaults",
			entries: []any{
				map[string]any{"name": "bold"},
			},
			want: []Descriptor{Bare("bold")},
		},
		{
			name: "short flag names",
			entries: []any{
				map[string]any{"name": "authorID", "brackets": false, "optional": false},
				map[string]any{"name": "author", "brackets": true, "optional": false},
			},
			want: []Descriptor{
				{Name: "authorID"},
				{Name: "author", BracketsRequired: true},
			},
		},
		{
			name: "long flag names win over short ones",
			entries: []any{
				map[string]any{"name": "bold", "bracketsOptional": false, "optional": true},
			},
			want: []Descriptor{{Name: "bold", BracketsRequired: true}},
		},
		{
			name:    "descriptor values pass through",
			entries: []any{Descriptor{Name: "sum", BracketsRequired: true}},
			want:    []Descriptor{{Name: "sum", BracketsRequired: true}},
		},
		{
			name:    "missing name",
			entries: []any{map[string]any{"brackets": true}},
			wantErr: "no function name was given",
		},
		{
			name:    "non-string name",
			entries: []any{map[string]any{"name": 42}},
			wantErr: "name must be a string",
		},
		{
			name:    "non-bool flag",
			entries: []any{map[string]any{"name": "bold", "optional": "yes"}},
			wantErr: "optional must be a boolean",
		},
		{
			name:    "unknown shape",
			entries: []any{"bold", 3.5},
			wantErr: "unknown function received in array",
		},
		{
			name:    "unsorted",
			entries: []any{"foo", "foobar"},
			wantErr: "function array is not sorted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := FromEntries(tt.entries)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalid)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, r.Descriptors()); diff != "" {
				t.Errorf("descriptors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortByLength(t *testing.T) {
	in := []Descriptor{
		Bare("foo"),
		Bare("ab"),
		Bare("foobar"),
		{Name: "bar"},
		Bare("quux"),
	}

	got := SortByLength(in)

	want := []string{"foobar", "quux", "foo", "bar", "ab"}
	names := make([]string, len(got))
	for i, d := range got {
		names[i] = d.Name
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	// Input untouched
	assert.Equal(t, "foo", in[0].Name)

	_, err := New(got...)
	assert.NoError(t, err, "sorted output must validate")
}
