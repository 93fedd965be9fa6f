package moderation

const (
	RecommendationRemove = "remove from group"
	RecommendationTalk   = "talk to the user"
)

type PrivateWarning struct {
	UserID      int64
	Explanation string
}

type AdminAlert struct {
	ChatID         int64
	UserID         int64
	WarningCount   int
	Recommendation string
}

// Decision is the set of notification intents for one offense. A private
// warning is always present, the admin alert only past the repeat-offender
// mark.
type Decision struct {
	Warning PrivateWarning
	Alert   *AdminAlert
}

// EscalationPolicy is a pure decision function over a fresh warning count.
type EscalationPolicy struct {
	Threshold int
}

func NewEscalationPolicy(threshold int) EscalationPolicy {
	if threshold <= 0 {
		threshold = DefaultWarningThreshold
	}
	return EscalationPolicy{Threshold: threshold}
}

func (p EscalationPolicy) Decide(chatID, userID int64, warningCount int, explanation string) Decision {
	decision := Decision{
		Warning: PrivateWarning{
			UserID:      userID,
			Explanation: explanation,
		},
	}
	if warningCount < 2 {
		return decision
	}

	recommendation := RecommendationTalk
	if warningCount >= p.Threshold {
		recommendation = RecommendationRemove
	}
	decision.Alert = &AdminAlert{
		ChatID:         chatID,
		UserID:         userID,
		WarningCount:   warningCount,
		Recommendation: recommendation,
	}
	return decision
}
