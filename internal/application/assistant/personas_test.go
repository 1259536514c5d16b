package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lifex-api/internal/domain/entity"
)

func TestPersonaAllowedAnonymousCannotUseMax(t *testing.T) {
	anon := entity.ClassifyIdentity("anonymous", "session-1")

	assert.False(t, personaAllowed(anon, entity.PersonaMax))
	assert.True(t, personaAllowed(anon, entity.PersonaColy))
}

func TestPersonaAllowedRegisteredAndDemoCanUseMax(t *testing.T) {
	registered := entity.ClassifyIdentity("8f6e2f61-2a0f-44f5-9a51-54c4b913f001", "session-1")
	demo := entity.ClassifyIdentity("demo-user", "session-1")

	assert.True(t, personaAllowed(registered, entity.PersonaMax))
	assert.True(t, personaAllowed(demo, entity.PersonaMax))
}

func TestProfileForUnknownFallsBackToColy(t *testing.T) {
	p := profileFor(entity.Persona("robot"))

	assert.Equal(t, personaProfiles[entity.PersonaColy].SystemPrompt, p.SystemPrompt)
	assert.False(t, p.RegisteredOnly)
}

func TestProfilesAreComplete(t *testing.T) {
	for persona, p := range personaProfiles {
		assert.NotEmpty(t, p.SystemPrompt, string(persona))
		assert.NotEmpty(t, p.FallbackMessage, string(persona))
		assert.NotEmpty(t, p.FollowUpQuestions, string(persona))
	}
}
