// internal/matching/scorer/tables.go
package scorer

import "sponsormatch-workers/internal/models"

// Rule weights. They sum to 100.
const (
	WeightAudience    = 20
	WeightDemographic = 15
	WeightIndustry    = 15
	WeightGoals       = 25
	WeightBudget      = 15
	WeightSponsorship = 10
)

// MatchThreshold is the minimum score for a pair to be persisted.
const MatchThreshold = 50

const (
	ReasonAudience    = "Audience alignment"
	ReasonDemographic = "Demographic fit"
	ReasonIndustry    = "Industry relevance"
	ReasonGoals       = "Marketing goals alignment"
	ReasonBudget      = "Budget fit"
	ReasonSponsorship = "Sponsorship type alignment"
)

// Per-attendee spend band for the budget rule, inclusive.
const (
	minSpendPerAttendee = 5.0
	maxSpendPerAttendee = 50.0
)

var stopWords = map[string]struct{}{
	"and": {}, "the": {}, "for": {}, "with": {}, "that": {}, "this": {}, "have": {},
	"from": {}, "they": {}, "will": {}, "would": {}, "about": {}, "there": {}, "their": {},
}

var industryEvents = map[models.Industry][]models.EventType{
	models.IndustryFoodBeverage:    {models.EventFestival, models.EventCommunity, models.EventSports, models.EventConcert},
	models.IndustryBeautyCosmetics: {models.EventExpo, models.EventFestival, models.EventNetworking},
	models.IndustryHealthWellness:  {models.EventExpo, models.EventWorkshop, models.EventSports, models.EventCommunity},
	models.IndustryTech:            {models.EventConference, models.EventExpo, models.EventWorkshop, models.EventNetworking},
	models.IndustryFashion:         {models.EventExpo, models.EventFestival, models.EventNetworking},
	models.IndustryHomeGoods:       {models.EventExpo, models.EventCommunity},
	models.IndustrySportsFitness:   {models.EventSports, models.EventCommunity, models.EventFestival},
	models.IndustryEntertainment:   {models.EventConcert, models.EventFestival, models.EventCommunity},
}

var offeringKeywords = map[models.OfferingType][]string{
	models.OfferingBrandVisibility: {"awareness", "visibility", "exposure", "brand"},
	models.OfferingContentCreation: {"content", "social", "media", "video", "photo"},
	models.OfferingLeadGeneration:  {"leads", "contacts", "prospects", "customers"},
	models.OfferingProductSampling: {"sample", "try", "test", "experience"},
	models.OfferingProductFeedback: {"feedback", "review", "opinion", "improve"},
}

var sponsorshipKeywords = map[models.SponsorshipType][]string{
	models.SponsorshipProductSampling: {"sample", "product", "try", "give", "distribute"},
	models.SponsorshipFinancial:       {"money", "cash", "fund", "financial", "payment"},
	models.SponsorshipInKindGoods:     {"provide", "goods", "items", "supplies"},
	models.SponsorshipMerchandise:     {"merch", "swag", "giveaway", "t-shirt", "product"},
	models.SponsorshipExperience:      {"experience", "activity", "interactive", "engage"},
}

var budgetMidpoints = map[models.BudgetBucket]float64{
	models.BudgetUnder1000:    1000,
	models.Budget1000To5000:   5000,
	models.Budget5000To10000:  10000,
	models.Budget10000To25000: 25000,
	models.Budget25000Plus:    50000,
}

var attendeeMidpoints = map[models.AttendeeBucket]float64{
	models.AttendeesUnder100:   100,
	models.Attendees100To500:   500,
	models.Attendees500To1000:  1000,
	models.Attendees1000To5000: 5000,
	models.Attendees5000Plus:   10000,
}
