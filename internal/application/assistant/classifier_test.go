package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lifex-api/internal/domain/entity"
)

func TestClassifyRecommendationWithCategory(t *testing.T) {
	c := Classify("Can you find a coffee shop nearby?")

	assert.Equal(t, IntentRecommendation, c.Intent)
	assert.Equal(t, entity.CategoryCoffee, c.Category)
	assert.True(t, c.Nearby)
}

func TestClassifyNearbyWithoutCategory(t *testing.T) {
	c := Classify("what's good around me tonight?")

	assert.Equal(t, IntentRecommendation, c.Intent)
	assert.Empty(t, string(c.Category))
	assert.True(t, c.Nearby)
}

func TestClassifyPlainConversation(t *testing.T) {
	c := Classify("How are you doing today?")

	assert.Equal(t, IntentConversation, c.Intent)
	assert.Empty(t, string(c.Category))
	assert.False(t, c.Nearby)
}

// 品类词单独出现但没有推荐触发词时仍按普通对话处理
func TestClassifyCategoryWithoutTrigger(t *testing.T) {
	c := Classify("I had dinner with my parents yesterday")

	assert.Equal(t, IntentConversation, c.Intent)
	assert.Equal(t, entity.CategoryRestaurant, c.Category)
}

func TestClassifyCategoryKeywords(t *testing.T) {
	cases := []struct {
		message  string
		category entity.BusinessCategory
	}{
		{"recommend a good espresso place", entity.CategoryCoffee},
		{"where can I get brunch", entity.CategoryRestaurant},
		{"find me a cocktail bar", entity.CategoryBar},
		{"looking for a yoga studio", entity.CategoryGym},
		{"best barber in town?", entity.CategorySalon},
		{"suggest a shopping mall", entity.CategoryShopping},
	}

	for _, tc := range cases {
		c := Classify(tc.message)
		assert.Equal(t, IntentRecommendation, c.Intent, tc.message)
		assert.Equal(t, tc.category, c.Category, tc.message)
	}
}

// "barely" 不应命中 "bar"
func TestContainsWordWholeWordOnly(t *testing.T) {
	assert.False(t, containsWord("i can barely hear you", "bar"))
	assert.True(t, containsWord("meet me at the bar", "bar"))
	assert.True(t, containsWord("bar crawl tonight", "bar"))
	assert.True(t, containsWord("that rooftop bar!", "bar"))
	assert.False(t, containsWord("embargo lifted", "bar"))
}

func TestClassifyWholeWordCategory(t *testing.T) {
	c := Classify("find something barely used")

	assert.Empty(t, string(c.Category))
}
