// internal/matching/scorer/scorer.go
package scorer

import (
	"strings"
	"unicode"

	"sponsormatch-workers/internal/models"
)

// Result is the outcome of scoring one brand/organizer pair. Reasons hold one
// entry per satisfied rule, in rule order.
type Result struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// Qualifies reports whether the pair is good enough to persist.
func (r Result) Qualifies() bool {
	return r.Score >= MatchThreshold
}

type rule struct {
	weight int
	reason string
	match  func(b *models.Brand, o *models.Organizer) bool
}

var rules = []rule{
	{WeightAudience, ReasonAudience, audienceAligned},
	{WeightDemographic, ReasonDemographic, demographicFit},
	{WeightIndustry, ReasonIndustry, industryRelevant},
	{WeightGoals, ReasonGoals, goalsAligned},
	{WeightBudget, ReasonBudget, budgetFits},
	{WeightSponsorship, ReasonSponsorship, sponsorshipAligned},
}

// Score runs every rule against the pair. Unknown or empty attributes fail
// their rule and never produce an error.
func Score(b *models.Brand, o *models.Organizer) Result {
	res := Result{Reasons: make([]string, 0, len(rules))}
	if b == nil || o == nil {
		return res
	}
	for _, r := range rules {
		if r.match(b, o) {
			res.Score += r.weight
			res.Reasons = append(res.Reasons, r.reason)
		}
	}
	return res
}

func audienceAligned(b *models.Brand, o *models.Organizer) bool {
	brandWords := make(map[string]struct{})
	for _, w := range tokenize(b.TargetAudience) {
		if significant(w) {
			brandWords[w] = struct{}{}
		}
	}
	if len(brandWords) == 0 {
		return false
	}
	for _, w := range tokenize(o.AudienceDescription) {
		if _, ok := brandWords[w]; ok && significant(w) {
			return true
		}
	}
	return false
}

func significant(w string) bool {
	if len([]rune(w)) <= 3 {
		return false
	}
	_, stop := stopWords[w]
	return !stop
}

func demographicFit(b *models.Brand, o *models.Organizer) bool {
	if b.AgeRange == models.AgeAll {
		return true
	}
	for _, d := range o.AudienceDemographics {
		if d == models.AgeAll {
			return true
		}
		if b.AgeRange != "" && d == b.AgeRange {
			return true
		}
	}
	return false
}

func industryRelevant(b *models.Brand, o *models.Organizer) bool {
	for _, e := range industryEvents[b.Industry] {
		if e == o.EventType {
			return true
		}
	}
	return false
}

func goalsAligned(b *models.Brand, o *models.Organizer) bool {
	goals := make(map[string]struct{})
	for _, w := range tokenize(b.MarketingGoals) {
		goals[w] = struct{}{}
	}
	for _, offering := range o.OfferingTypes {
		for _, kw := range offeringKeywords[offering] {
			if _, ok := goals[kw]; ok {
				return true
			}
		}
	}
	return false
}

func budgetFits(b *models.Brand, o *models.Organizer) bool {
	budget, ok := budgetMidpoints[b.Budget]
	if !ok {
		return false
	}
	attendees, ok := attendeeMidpoints[o.AttendeeCount]
	if !ok {
		return false
	}
	perAttendee := budget / attendees
	return perAttendee >= minSpendPerAttendee && perAttendee <= maxSpendPerAttendee
}

func sponsorshipAligned(b *models.Brand, o *models.Organizer) bool {
	needs := strings.ToLower(o.SponsorshipNeeds)
	if strings.TrimSpace(needs) == "" {
		return false
	}
	for _, t := range b.SponsorshipTypes {
		for _, kw := range sponsorshipKeywords[t] {
			if strings.Contains(needs, kw) {
				return true
			}
		}
	}
	return false
}

// tokenize lowercases s and splits it into words. Hyphens stay inside words.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}
