// internal/matching/scorer/scorer_test.go
package scorer

import (
	"testing"

	"sponsormatch-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestBrand() *models.Brand {
	return &models.Brand{
		ID:               "brand-1",
		Name:             "Byte Snacks",
		ProductName:      "Protein Crisps",
		TargetAudience:   "Young professionals interested in technology",
		AgeRange:         "25_34",
		Industry:         models.IndustryTech,
		SponsorshipTypes: []models.SponsorshipType{models.SponsorshipProductSampling},
		MarketingGoals:   "Grow brand awareness and capture leads",
		Budget:           models.Budget10000To25000,
	}
}

func createTestOrganizer() *models.Organizer {
	return &models.Organizer{
		ID:                   "org-1",
		Name:                 "DevFest Co",
		EventName:            "DevFest 2026",
		EventType:            models.EventConference,
		AudienceDescription:  "Technology professionals, founders and engineers",
		AudienceDemographics: []models.AgeBucket{"25_34", "35_44"},
		AttendeeCount:        models.Attendees1000To5000,
		OfferingTypes:        []models.OfferingType{models.OfferingBrandVisibility},
		SponsorshipNeeds:     "Looking for brands to distribute product samples at the booth",
	}
}

var reasonWeights = map[string]int{
	ReasonAudience:    WeightAudience,
	ReasonDemographic: WeightDemographic,
	ReasonIndustry:    WeightIndustry,
	ReasonGoals:       WeightGoals,
	ReasonBudget:      WeightBudget,
	ReasonSponsorship: WeightSponsorship,
}

func assertConsistent(t *testing.T, res Result) {
	t.Helper()
	assert.GreaterOrEqual(t, res.Score, 0)
	assert.LessOrEqual(t, res.Score, 100)
	sum := 0
	for _, r := range res.Reasons {
		w, ok := reasonWeights[r]
		require.True(t, ok, "unknown reason %q", r)
		sum += w
	}
	assert.Equal(t, res.Score, sum)
}

// ==========================
// Rule Tests
// ==========================

func TestScore_PerfectPair(t *testing.T) {
	res := Score(createTestBrand(), createTestOrganizer())

	assert.Equal(t, 100, res.Score)
	assert.Equal(t, []string{
		ReasonAudience,
		ReasonDemographic,
		ReasonIndustry,
		ReasonGoals,
		ReasonBudget,
		ReasonSponsorship,
	}, res.Reasons)
	assert.True(t, res.Qualifies())
}

func TestScore_EmptyProfiles(t *testing.T) {
	res := Score(&models.Brand{}, &models.Organizer{})
	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.Reasons)
	assert.NotNil(t, res.Reasons)

	assert.Equal(t, 0, Score(nil, createTestOrganizer()).Score)
}

func TestScore_IndustryRelevance(t *testing.T) {
	b := &models.Brand{Industry: models.IndustryTech}
	o := &models.Organizer{EventType: models.EventConference}

	res := Score(b, o)
	assert.Equal(t, WeightIndustry, res.Score)
	assert.Contains(t, res.Reasons, ReasonIndustry)

	o.EventType = models.EventConcert
	assert.NotContains(t, Score(b, o).Reasons, ReasonIndustry)

	b.Industry = "aerospace"
	assert.Equal(t, 0, Score(b, o).Score)
}

func TestScore_BudgetFit(t *testing.T) {
	tests := []struct {
		name      string
		budget    models.BudgetBucket
		attendees models.AttendeeBucket
		want      bool
	}{
		{"two per attendee is too little", models.Budget5000To10000, models.Attendees1000To5000, false},
		{"lower bound is inclusive", models.Budget25000Plus, models.Attendees5000Plus, true},
		{"upper bound is inclusive", models.Budget25000Plus, models.Attendees500To1000, true},
		{"hundred per attendee is too much", models.Budget10000To25000, models.AttendeesUnder100, false},
		{"ten per attendee", models.Budget5000To10000, models.Attendees500To1000, true},
		{"unknown budget bucket", "lots", models.Attendees100To500, false},
		{"unknown attendee bucket", models.Budget1000To5000, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score(&models.Brand{Budget: tt.budget}, &models.Organizer{AttendeeCount: tt.attendees})
			if tt.want {
				assert.Equal(t, []string{ReasonBudget}, res.Reasons)
				assert.Equal(t, WeightBudget, res.Score)
			} else {
				assert.Equal(t, 0, res.Score)
			}
		})
	}
}

func TestScore_DemographicFit(t *testing.T) {
	tests := []struct {
		name         string
		ageRange     models.AgeBucket
		demographics []models.AgeBucket
		want         bool
	}{
		{"brand targets all ages", models.AgeAll, []models.AgeBucket{"55_plus"}, true},
		{"brand targets all with no demographics", models.AgeAll, nil, true},
		{"organizer serves all ages", "18_24", []models.AgeBucket{models.AgeAll}, true},
		{"bucket present", "18_24", []models.AgeBucket{"13_17", "18_24"}, true},
		{"bucket absent", "18_24", []models.AgeBucket{"35_44"}, false},
		{"empty brand range", "", []models.AgeBucket{"", "35_44"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score(&models.Brand{AgeRange: tt.ageRange}, &models.Organizer{AudienceDemographics: tt.demographics})
			assert.Equal(t, tt.want, res.Score == WeightDemographic)
		})
	}
}

func TestScore_AudienceAlignment(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		audience string
		want     bool
	}{
		{"shared long word", "Outdoor enthusiasts", "Hikers and OUTDOOR lovers", true},
		{"punctuation is ignored", "families, kids", "Local families.", true},
		{"short words never count", "fun art", "fun art fair", false},
		{"stop words never count", "people with their pets", "their friends with dogs", false},
		{"empty target", "", "anything goes here", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score(&models.Brand{TargetAudience: tt.target}, &models.Organizer{AudienceDescription: tt.audience})
			assert.Equal(t, tt.want, res.Score == WeightAudience, res.Reasons)
		})
	}
}

func TestScore_MarketingGoals(t *testing.T) {
	o := &models.Organizer{OfferingTypes: []models.OfferingType{
		models.OfferingContentCreation,
		models.OfferingProductFeedback,
	}}

	assert.Equal(t, WeightGoals, Score(&models.Brand{MarketingGoals: "Gather honest FEEDBACK"}, o).Score)
	assert.Equal(t, WeightGoals, Score(&models.Brand{MarketingGoals: "more social content"}, o).Score)
	// substrings of a word are not keywords
	assert.Equal(t, 0, Score(&models.Brand{MarketingGoals: "reviewing mediation"}, o).Score)
	assert.Equal(t, 0, Score(&models.Brand{MarketingGoals: "awareness"}, o).Score)
}

func TestScore_SponsorshipAlignment(t *testing.T) {
	b := &models.Brand{SponsorshipTypes: []models.SponsorshipType{models.SponsorshipMerchandise}}

	assert.Equal(t, WeightSponsorship, Score(b, &models.Organizer{SponsorshipNeeds: "Need T-Shirts for volunteers"}).Score)
	assert.Equal(t, WeightSponsorship, Score(b, &models.Organizer{SponsorshipNeeds: "free giveaways"}).Score)
	assert.Equal(t, 0, Score(b, &models.Organizer{SponsorshipNeeds: "cash only"}).Score)
	assert.Equal(t, 0, Score(b, &models.Organizer{SponsorshipNeeds: "   "}).Score)
	assert.Equal(t, 0, Score(&models.Brand{SponsorshipTypes: []models.SponsorshipType{"barter"}}, &models.Organizer{SponsorshipNeeds: "swag"}).Score)
}

// ==========================
// Property Tests
// ==========================

func TestScore_ReasonsMatchScore(t *testing.T) {
	brands := []*models.Brand{
		createTestBrand(),
		{Industry: models.IndustryFoodBeverage, AgeRange: models.AgeAll, Budget: models.BudgetUnder1000, MarketingGoals: "sample"},
		{Industry: models.IndustryFashion, SponsorshipTypes: []models.SponsorshipType{models.SponsorshipFinancial}, TargetAudience: "fashion lovers"},
		{},
	}
	organizers := []*models.Organizer{
		createTestOrganizer(),
		{EventType: models.EventFestival, AttendeeCount: models.AttendeesUnder100, OfferingTypes: []models.OfferingType{models.OfferingProductSampling}},
		{EventType: models.EventExpo, SponsorshipNeeds: "Financial support", AudienceDescription: "Fashion lovers and designers"},
		{},
	}

	for _, b := range brands {
		for _, o := range organizers {
			res := Score(b, o)
			assertConsistent(t, res)
			assert.Equal(t, res, Score(b, o), "scoring must be deterministic")
		}
	}
}

func TestResult_Qualifies(t *testing.T) {
	assert.True(t, Result{Score: 50}.Qualifies())
	assert.False(t, Result{Score: 49}.Qualifies())

	// goals + industry + sponsorship lands exactly on the threshold
	b := &models.Brand{
		Industry:         models.IndustryTech,
		MarketingGoals:   "leads",
		SponsorshipTypes: []models.SponsorshipType{models.SponsorshipFinancial},
	}
	o := &models.Organizer{
		EventType:        models.EventWorkshop,
		OfferingTypes:    []models.OfferingType{models.OfferingLeadGeneration},
		SponsorshipNeeds: "seeking cash sponsors",
	}
	res := Score(b, o)
	assert.Equal(t, MatchThreshold, res.Score)
	assert.True(t, res.Qualifies())
}
