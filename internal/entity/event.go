package entity

import (
	"time"

	"github.com/google/uuid"

	"eventfoundry-api/internal/common"
)

// db model
type Event struct {
	Id                   uuid.UUID          `json:"id" db:"id"`
	Title                string             `json:"title" db:"title"`
	EventType            string             `json:"eventType" db:"event_type"`
	OwnerUserId          uuid.UUID          `json:"ownerUserId" db:"owner_user_id"`
	ForgeStatus          common.ForgeStatus `json:"forgeStatus" db:"forge_status"`
	BiddingClosesAt      *time.Time         `json:"biddingClosesAt" db:"bidding_closes_at"`
	ShortlistFinalizedAt *time.Time         `json:"shortlistFinalizedAt" db:"shortlist_finalized_at"`
	FinalBiddingClosesAt *time.Time         `json:"finalBiddingClosesAt" db:"final_bidding_closes_at"`
	WinnerBidId          *uuid.UUID         `json:"winnerBidId" db:"winner_bid_id"`
	CreatedAt            string             `json:"createdAt" db:"created_at"`
}

// service + repo input model
type CreateEventInput struct {
	Title           string     // given
	EventType       string     // given
	OwnerUserId     string     // given
	BiddingClosesAt *time.Time // given
	// ForgeStatus should be set: "OPEN_FOR_BIDS"
	// Id UUID sets automatically
	// CreatedAt sets automatically
}

// controller model
type EventOutputModel struct {
	Id                   string `json:"id"`
	Title                string `json:"title"`
	EventType            string `json:"eventType"`
	ForgeStatus          string `json:"forgeStatus"`
	BiddingClosesAt      string `json:"biddingClosesAt,omitempty"`
	ShortlistFinalizedAt string `json:"shortlistFinalizedAt,omitempty"`
	FinalBiddingClosesAt string `json:"finalBiddingClosesAt,omitempty"`
	WinnerBidId          string `json:"winnerBidId,omitempty"`
	CreatedAt            string `json:"createdAt"`
}
