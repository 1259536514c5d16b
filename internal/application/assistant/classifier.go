// Package assistant 实现对话助手的意图分流、回复生成与降级
package assistant

import (
	"strings"

	"lifex-api/internal/domain/entity"
)

// Intent 消息意图
type Intent string

const (
	IntentRecommendation Intent = "recommendation"
	IntentConversation   Intent = "conversation"
)

// Classification 分类结果
type Classification struct {
	Intent   Intent
	Category entity.BusinessCategory
	// Nearby 消息中是否提到就近查找
	Nearby bool
}

// 推荐类触发词
var recommendationTriggers = []string{
	"recommend", "recommendation", "suggest", "find", "where",
	"looking for", "near", "nearby", "around me", "close by",
	"best", "top",
}

// 品类关键词到商家分类的映射
var categoryKeywords = map[string]entity.BusinessCategory{
	"coffee":     entity.CategoryCoffee,
	"cafe":       entity.CategoryCoffee,
	"espresso":   entity.CategoryCoffee,
	"restaurant": entity.CategoryRestaurant,
	"food":       entity.CategoryRestaurant,
	"eat":        entity.CategoryRestaurant,
	"dinner":     entity.CategoryRestaurant,
	"lunch":      entity.CategoryRestaurant,
	"brunch":     entity.CategoryRestaurant,
	"bar":        entity.CategoryBar,
	"pub":        entity.CategoryBar,
	"drink":      entity.CategoryBar,
	"cocktail":   entity.CategoryBar,
	"gym":        entity.CategoryGym,
	"fitness":    entity.CategoryGym,
	"workout":    entity.CategoryGym,
	"yoga":       entity.CategoryGym,
	"salon":      entity.CategorySalon,
	"haircut":    entity.CategorySalon,
	"barber":     entity.CategorySalon,
	"spa":        entity.CategorySalon,
	"shop":       entity.CategoryShopping,
	"shopping":   entity.CategoryShopping,
	"mall":       entity.CategoryShopping,
	"store":      entity.CategoryShopping,
}

// Classify 对消息做关键词意图分类。
// 命中推荐触发词或品类名词即判定为推荐类请求，其余走普通对话。
func Classify(message string) Classification {
	text := strings.ToLower(message)

	c := Classification{Intent: IntentConversation}

	for keyword, category := range categoryKeywords {
		if containsWord(text, keyword) {
			c.Category = category
			break
		}
	}

	triggered := false
	for _, trigger := range recommendationTriggers {
		if strings.Contains(text, trigger) {
			triggered = true
			break
		}
	}

	c.Nearby = strings.Contains(text, "near") || strings.Contains(text, "around me") || strings.Contains(text, "close by")

	if triggered && c.Category != "" {
		c.Intent = IntentRecommendation
	} else if triggered && c.Nearby {
		// “what's near me” 没有品类也按推荐处理
		c.Intent = IntentRecommendation
	}

	return c
}

// containsWord 判断词是否以完整单词出现，避免 "bar" 命中 "barely" 这类误判
func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isLetter(text[start-1])
		afterOK := end == len(text) || !isLetter(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
		if idx >= len(text) {
			return false
		}
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
