// internal/models/entity.go
package models

import (
	"sort"
	"strings"
	"time"
)

// EntityType names which side of the marketplace an entity belongs to.
type EntityType string

const (
	EntityBrand     EntityType = "brand"
	EntityOrganizer EntityType = "organizer"
)

func (t EntityType) Valid() bool {
	return t == EntityBrand || t == EntityOrganizer
}

// Counterparty returns the side a run for t is scored against.
func (t EntityType) Counterparty() EntityType {
	if t == EntityBrand {
		return EntityOrganizer
	}
	return EntityBrand
}

type (
	Industry        string
	EventType       string
	OfferingType    string
	SponsorshipType string
	BudgetBucket    string
	AttendeeBucket  string
	AgeBucket       string
)

// AgeAll is accepted both as a brand age range and as an organizer demographic bucket.
const AgeAll AgeBucket = "all"

const (
	IndustryFoodBeverage    Industry = "food_beverage"
	IndustryBeautyCosmetics Industry = "beauty_cosmetics"
	IndustryHealthWellness  Industry = "health_wellness"
	IndustryTech            Industry = "tech"
	IndustryFashion         Industry = "fashion"
	IndustryHomeGoods       Industry = "home_goods"
	IndustrySportsFitness   Industry = "sports_fitness"
	IndustryEntertainment   Industry = "entertainment"
)

const (
	EventFestival   EventType = "festival"
	EventCommunity  EventType = "community"
	EventSports     EventType = "sports"
	EventConcert    EventType = "concert"
	EventExpo       EventType = "expo"
	EventNetworking EventType = "networking"
	EventWorkshop   EventType = "workshop"
	EventConference EventType = "conference"
)

const (
	OfferingBrandVisibility OfferingType = "brand_visibility"
	OfferingContentCreation OfferingType = "content_creation"
	OfferingLeadGeneration  OfferingType = "lead_generation"
	OfferingProductSampling OfferingType = "product_sampling"
	OfferingProductFeedback OfferingType = "product_feedback"
)

const (
	SponsorshipProductSampling SponsorshipType = "product_sampling"
	SponsorshipFinancial       SponsorshipType = "financial_sponsorship"
	SponsorshipInKindGoods     SponsorshipType = "in_kind_goods"
	SponsorshipMerchandise     SponsorshipType = "merchandise"
	SponsorshipExperience      SponsorshipType = "experience"
)

const (
	BudgetUnder1000    BudgetBucket = "under_1000"
	Budget1000To5000   BudgetBucket = "1000_5000"
	Budget5000To10000  BudgetBucket = "5000_10000"
	Budget10000To25000 BudgetBucket = "10000_25000"
	Budget25000Plus    BudgetBucket = "25000_plus"
)

const (
	AttendeesUnder100   AttendeeBucket = "under_100"
	Attendees100To500   AttendeeBucket = "100_500"
	Attendees500To1000  AttendeeBucket = "500_1000"
	Attendees1000To5000 AttendeeBucket = "1000_5000"
	Attendees5000Plus   AttendeeBucket = "5000_plus"
)

// Brand is a sponsor profile. Only the targeting attributes take part in scoring.
type Brand struct {
	ID               string            `json:"id"`
	UserID           string            `json:"userId"`
	Name             string            `json:"name"`
	ProductName      string            `json:"productName"`
	TargetAudience   string            `json:"targetAudience"`
	AgeRange         AgeBucket         `json:"ageRange"`
	Industry         Industry          `json:"industry"`
	SponsorshipTypes []SponsorshipType `json:"sponsorshipType"`
	MarketingGoals   string            `json:"marketingGoals"`
	Budget           BudgetBucket      `json:"budget"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// Organizer is an event profile, the counterpart of Brand.
type Organizer struct {
	ID                   string         `json:"id"`
	UserID               string         `json:"userId"`
	Name                 string         `json:"name"`
	EventName            string         `json:"eventName"`
	EventType            EventType      `json:"eventType"`
	AudienceDescription  string         `json:"audienceDescription"`
	AudienceDemographics []AgeBucket    `json:"audienceDemographics"`
	AttendeeCount        AttendeeBucket `json:"attendeeCount"`
	OfferingTypes        []OfferingType `json:"offeringTypes"`
	SponsorshipNeeds     string         `json:"sponsorshipNeeds"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`
}

// PairKey is the unordered key of a brand/organizer pair.
func PairKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, ":")
}
