package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShortlistUpdate carries one shortlisted bid's computed intelligence to the
// repository write.
type ShortlistUpdate struct {
	BidId        uuid.UUID
	Intelligence CompetitiveIntelligence
}

// ShortlistingResult is what the shortlisting engine reports back.
type ShortlistingResult struct {
	Shortlisted []Bid
	Rejected    []Bid
	LowestBid   decimal.Decimal
}

// ShortlistingStats summarizes a bid set for operators.
type ShortlistingStats struct {
	TotalBids  int             `json:"totalBids"`
	LowestBid  decimal.Decimal `json:"lowestBid"`
	HighestBid decimal.Decimal `json:"highestBid"`
	AverageBid decimal.Decimal `json:"averageBid"`
	MedianBid  decimal.Decimal `json:"medianBid"`
}

// CloseWindowResult reports one window closure attempt.
type CloseWindowResult struct {
	EventId          string `json:"eventId"`
	Success          bool   `json:"success"`
	Reason           string `json:"reason,omitempty"`
	ShortlistedCount int    `json:"shortlistedCount"`
	RejectedCount    int    `json:"rejectedCount"`
	LowestBid        string `json:"lowestBid,omitempty"`
}

type SweepResult struct {
	TotalFound  int                 `json:"totalFound"`
	ClosedCount int                 `json:"closedCount"`
	Results     []CloseWindowResult `json:"results"`
}
