package session

import (
	"strings"
	"testing"

	"github.com/aretw0/itfview/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeViewID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"Plain", "alice", false},
		{"Unicode", "ação", false},
		{"Exact Limit", strings.Repeat("a", MaxViewIDSize), false},
		{"Empty", "", true},
		{"Over Limit", strings.Repeat("a", MaxViewIDSize+1), true},
		{"Invalid UTF-8", "a\xffb", true},
		{"Control Char", "a\x1bb", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SanitizeViewID(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeCommand(t *testing.T) {
	t.Run("Strips Control Characters", func(t *testing.T) {
		cmd, err := sanitizeCommand(Command{Name: CommandFilterVariables, Variables: []string{"x\x00", "\x1b[31my", "\x07"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "[31my"}, cmd.Variables)
	})

	t.Run("Nil Stays Nil", func(t *testing.T) {
		cmd, err := sanitizeCommand(Command{Name: CommandSwitchView})
		require.NoError(t, err)
		assert.Nil(t, cmd.Variables)
	})

	tests := []struct {
		name string
		vars []string
	}{
		{"Too Many", make([]string, MaxVariableCount+1)},
		{"Too Large", []string{strings.Repeat("v", MaxVariableSize+1)}},
		{"Invalid UTF-8", []string{"\xff"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sanitizeCommand(Command{Name: CommandFilterVariables, Variables: tt.vars})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
