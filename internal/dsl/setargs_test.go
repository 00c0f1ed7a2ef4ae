package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/narrata/internal/catalog"
	"github.com/mesh-intelligence/narrata/pkg/types"
)

func TestParseSetArgs(t *testing.T) {
	tests := []struct {
		name    string
		raw     []string
		want    []SetArg
		wantErr bool
	}{
		{"empty", nil, []SetArg{}, false},
		{"simple", []string{"age=87"}, []SetArg{{"age", "87"}}, false},
		{"value keeps later equals", []string{"motto=a=b"}, []SetArg{{"motto", "a=b"}}, false},
		{"empty value", []string{"alias="}, []SetArg{{"alias", ""}}, false},
		{"key is trimmed", []string{" faction =fellowship*leader"}, []SetArg{{"faction", "fellowship*leader"}}, false},
		{"missing equals", []string{"age"}, nil, true},
		{"missing key", []string{"=87"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSetArgs(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalidSetArg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPartition(t *testing.T) {
	def, err := catalog.Entity(catalog.KindCharacter)
	require.NoError(t, err)

	args := []SetArg{
		{"age", "87"},
		{"faction", "fellowship*leader"},
		{"height", "198"},
		{"location", "rivendell,bree"},
		{"status", "Retired"},
	}
	regular, relation := Partition(def, args)
	assert.Equal(t, []SetArg{{"age", "87"}, {"height", "198"}, {"status", "Retired"}}, regular)
	assert.Equal(t, []SetArg{{"faction", "fellowship*leader"}, {"location", "rivendell,bree"}}, relation)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		value string
		want  []Segment
	}{
		{"fellowship", []Segment{{Target: "fellowship"}}},
		{"fellowship*leader", []Segment{{Target: "fellowship", Attr: "leader"}}},
		{"a*x,b", []Segment{{Target: "a", Attr: "x"}, {Target: "b"}}},
		{"a, b*y ,", []Segment{{Target: "a"}, {Target: "b", Attr: "y"}}},
		{"a*x*y", []Segment{{Target: "a", Attr: "x*y"}}},
		{",,", nil},
		{"", nil},
		{"saga:3*cameo", []Segment{{Target: "saga:3", Attr: "cameo"}}},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseValue(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValueMissingTarget(t *testing.T) {
	for _, value := range []string{"*leader", "fellowship, *leader", " * "} {
		t.Run(value, func(t *testing.T) {
			_, err := ParseValue(value)
			assert.ErrorIs(t, err, types.ErrInvalidSetArg)
		})
	}
}
