package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"eventfoundry-api/internal/common"
)

// db model
type Bid struct {
	Id                 uuid.UUID                `json:"id" db:"id"`
	EventId            uuid.UUID                `json:"eventId" db:"event_id"`
	VendorId           uuid.UUID                `json:"vendorId" db:"vendor_id"`
	CraftSpecialties   []string                 `json:"craftSpecialties" db:"craft_specialties"`
	ForgeItems         json.RawMessage          `json:"forgeItems" db:"forge_items"`
	Subtotal           decimal.Decimal          `json:"subtotal" db:"subtotal"`
	Taxes              decimal.Decimal          `json:"taxes" db:"taxes"`
	TotalCost          decimal.Decimal          `json:"totalCost" db:"total_cost"`
	CraftAttachments   []string                 `json:"craftAttachments" db:"craft_attachments"`
	VendorNotes        string                   `json:"vendorNotes" db:"vendor_notes"`
	EstimatedForgeTime string                   `json:"estimatedForgeTime" db:"estimated_forge_time"`
	Status             common.BidStatus         `json:"status" db:"status"`
	BidRound           int                      `json:"bidRound" db:"bid_round"`
	IsFinalBid         bool                     `json:"isFinalBid" db:"is_final_bid"`
	RevisedFromBidId   *uuid.UUID               `json:"revisedFromBidId" db:"revised_from_bid_id"`
	Intelligence       *CompetitiveIntelligence `json:"competitiveIntelligence" db:"competitive_intelligence"`
	ShortlistedAt      *time.Time               `json:"shortlistedAt" db:"shortlisted_at"`
	RejectedAt         *time.Time               `json:"rejectedAt" db:"rejected_at"`
	CreatedAt          string                   `json:"createdAt" db:"created_at"`
}

// service + repo input model
type CreateBidInput struct {
	EventId            string          // given
	VendorId           string          // given
	CraftSpecialties   []string        // given
	ForgeItems         json.RawMessage // given
	Subtotal           decimal.Decimal // given
	Taxes              decimal.Decimal // given
	TotalCost          decimal.Decimal // given
	CraftAttachments   []string        // given
	VendorNotes        string          // given
	EstimatedForgeTime string          // given
	// Status should be set: "SUBMITTED", BidRound should be set: 1
	// Id UUID sets automatically
	// CreatedAt sets automatically
}

// service input model for the round-2 revision
type ReviseBidInput struct {
	ForgeItems  json.RawMessage
	Subtotal    decimal.Decimal
	Taxes       decimal.Decimal
	TotalCost   decimal.Decimal
	VendorNotes string
}

// controller model
type BidOutputModel struct {
	Id                 string                   `json:"id"`
	EventId            string                   `json:"eventId"`
	VendorId           string                   `json:"vendorId"`
	TotalCost          string                   `json:"totalCost"`
	Status             string                   `json:"status"`
	BidRound           int                      `json:"bidRound"`
	IsFinalBid         bool                     `json:"isFinalBid"`
	RevisedFromBidId   string                   `json:"revisedFromBidId,omitempty"`
	Intelligence       *CompetitiveIntelligence `json:"competitiveIntelligence,omitempty"`
	VendorNotes        string                   `json:"vendorNotes,omitempty"`
	EstimatedForgeTime string                   `json:"estimatedForgeTime,omitempty"`
	CreatedAt          string                   `json:"createdAt"`
}
