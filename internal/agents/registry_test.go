// ABOUTME: Tests for the persona registry
// ABOUTME: Sanity checks over the static agent definitions

package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 4)

	seen := map[string]bool{}
	for _, a := range all {
		assert.NotEmpty(t, a.ID)
		assert.NotEmpty(t, a.Name)
		assert.NotEmpty(t, a.SystemPrompt)
		assert.NotEmpty(t, a.WelcomeMessage)
		assert.NotEmpty(t, a.ExampleQuestions)
		assert.False(t, seen[a.ID], "duplicate agent id %s", a.ID)
		seen[a.ID] = true
	}
}

func TestGet(t *testing.T) {
	agent, ok := Get("asesor-financiero")
	require.True(t, ok)
	assert.Equal(t, "Asesor Financiero", agent.Name)

	_, ok = Get("no-such-agent")
	assert.False(t, ok)
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "consultor-de-negocio", Default().ID)
}
