package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Helpers(t *testing.T) {
	n := &Node{
		Name:         "stg_orders",
		ResourceType: ResourceTypeModel,
		FQN:          []string{"jaffle_shop", "staging", "stg_orders"},
	}

	assert.True(t, n.IsModel())
	assert.False(t, n.IsSource())
	assert.True(t, n.InDirectory("staging"))
	assert.False(t, n.InDirectory("stag"), "fqn is matched by segment, not substring")
	assert.True(t, n.HasPrefix("stg_"))
	assert.False(t, n.HasPrefix("int_"))
}

func TestIDSet(t *testing.T) {
	s := NewIDSet("model.a", "model.b", "model.a", "seed.c")

	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Has("model.a"))
	assert.False(t, s.Has("model.z"))
	assert.Equal(t, 2, s.CountPrefix("model"))
	assert.Equal(t, []string{"model.a", "model.b", "seed.c"}, s.Sorted())

	s.Add("model.z")
	assert.Equal(t, 4, s.Len())
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in     string
		want   Severity
		wantOK bool
	}{
		{"error", SeverityError, true},
		{"WARNING", SeverityWarning, true},
		{"info", SeverityInfo, true},
		{"loud", SeverityWarning, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSeverity(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}

	text, err := SeverityWarning.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "warning", string(text))
}

func TestSeverity_UnmarshalText(t *testing.T) {
	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("Info")))
	assert.Equal(t, SeverityInfo, s)

	err := s.UnmarshalText([]byte("hint"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid severity "hint"`)
	assert.Equal(t, SeverityInfo, s, "failed parse leaves the value alone")
}
