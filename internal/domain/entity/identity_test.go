package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyIdentityAnonymous(t *testing.T) {
	for _, userID := range []string{"anonymous", "", "  "} {
		id := ClassifyIdentity(userID, "session-1")

		assert.Equal(t, IdentityAnonymous, id.Class, userID)
		assert.Equal(t, AnonymousUserID, id.UserID)
		assert.Equal(t, TierFree, id.Tier)
		assert.True(t, id.IsAnonymous())
		assert.False(t, id.ShouldPersist())
		assert.Equal(t, "anon:session-1", id.QuotaKey())
	}
}

func TestClassifyIdentityDemo(t *testing.T) {
	for _, userID := range []string{"demo-user", "admin"} {
		id := ClassifyIdentity(userID, "session-1")

		assert.Equal(t, IdentityDemo, id.Class, userID)
		assert.True(t, id.IsDemo())
		assert.False(t, id.ShouldPersist())
		assert.Equal(t, "user:"+userID, id.QuotaKey())
	}
}

func TestClassifyIdentityRegistered(t *testing.T) {
	id := ClassifyIdentity("8f6e2f61-2a0f-44f5-9a51-54c4b913f001", "session-1")

	assert.Equal(t, IdentityRegistered, id.Class)
	assert.True(t, id.ShouldPersist())
	assert.False(t, id.IsAnonymous())
	assert.False(t, id.IsDemo())
	assert.Equal(t, "user:8f6e2f61-2a0f-44f5-9a51-54c4b913f001", id.QuotaKey())
}

func TestParseTier(t *testing.T) {
	assert.Equal(t, TierCustomer, ParseTier("customer"))
	assert.Equal(t, TierPremium, ParseTier(" Premium "))
	assert.Equal(t, TierFreeBusiness, ParseTier("free_business"))
	assert.Equal(t, TierProfessionalBusiness, ParseTier("professional_business"))
	assert.Equal(t, TierEnterpriseBusiness, ParseTier("enterprise_business"))
	assert.Equal(t, TierFree, ParseTier("free"))
	assert.Equal(t, TierFree, ParseTier("gold"))
	assert.Equal(t, TierFree, ParseTier(""))
}
