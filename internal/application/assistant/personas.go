package assistant

import (
	"lifex-api/internal/domain/entity"
)

// personaProfile 助手人设的静态文案
type personaProfile struct {
	SystemPrompt      string
	FallbackMessage   string
	FollowUpQuestions []string
	// RegisteredOnly 为 true 时匿名身份不可使用
	RegisteredOnly bool
}

var personaProfiles = map[entity.Persona]personaProfile{
	entity.PersonaColy: {
		SystemPrompt: "You are Coly, a friendly local lifestyle assistant. " +
			"You help people discover great local businesses like cafes, restaurants, bars, gyms and salons, " +
			"and you answer everyday questions in a warm, concise tone. " +
			"Keep replies short and practical. If you are unsure, say so honestly.",
		FallbackMessage: "Sorry, I'm having a little trouble right now. " +
			"I can still help you discover great places nearby. Try asking me to find a coffee shop or restaurant!",
		FollowUpQuestions: []string{
			"Want me to find a great coffee shop nearby?",
			"Looking for somewhere to eat tonight?",
			"Curious what's trending around you?",
		},
	},
	entity.PersonaMax: {
		SystemPrompt: "You are Max, a sharp professional assistant for registered members. " +
			"You give direct, well-structured advice on local services, bookings and business needs. " +
			"Be efficient and specific.",
		FallbackMessage: "I hit a snag processing that. " +
			"Give it another try in a moment, or ask me to look up a business for you.",
		FollowUpQuestions: []string{
			"Need me to book a table for you?",
			"Want a shortlist of top-rated places?",
			"Anything else I can look up?",
		},
		RegisteredOnly: true,
	},
}

// profileFor 返回人设文案，未知人设回落到默认人设
func profileFor(p entity.Persona) personaProfile {
	if profile, ok := personaProfiles[p]; ok {
		return profile
	}
	return personaProfiles[entity.PersonaColy]
}

// personaAllowed 判断身份能否使用指定人设。
// max 人设只对注册（含演示）身份开放，匿名一律拒绝，与配额状态无关。
func personaAllowed(id entity.Identity, p entity.Persona) bool {
	if profileFor(p).RegisteredOnly && id.IsAnonymous() {
		return false
	}
	return true
}
