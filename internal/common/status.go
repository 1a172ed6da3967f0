package common

import "fmt"

// ForgeStatus is the event lifecycle phase.
type ForgeStatus string

const (
	BlueprintReady   ForgeStatus = "BLUEPRINT_READY"
	OpenForBids      ForgeStatus = "OPEN_FOR_BIDS"
	CraftsmenBidding ForgeStatus = "CRAFTSMEN_BIDDING"
	ShortlistReview  ForgeStatus = "SHORTLIST_REVIEW"
	WinnerSelected   ForgeStatus = "WINNER_SELECTED"
	Commissioned     ForgeStatus = "COMMISSIONED"
)

// BidStatus is the bid lifecycle phase.
type BidStatus string

const (
	Draft       BidStatus = "DRAFT"
	Submitted   BidStatus = "SUBMITTED"
	Shortlisted BidStatus = "SHORTLISTED"
	Revised     BidStatus = "REVISED"
	Accepted    BidStatus = "ACCEPTED"
	Rejected    BidStatus = "REJECTED"
	Withdrawn   BidStatus = "WITHDRAWN"
)

// CompetitivePosition tags a shortlisted bid relative to the lowest bid.
type CompetitivePosition string

const (
	PositionLowest      CompetitivePosition = "LOWEST"
	PositionAboveMarket CompetitivePosition = "ABOVE_MARKET"
)

var forgeTransitions = map[ForgeStatus][]ForgeStatus{
	BlueprintReady:   {OpenForBids},
	OpenForBids:      {CraftsmenBidding, ShortlistReview},
	CraftsmenBidding: {ShortlistReview},
	ShortlistReview:  {WinnerSelected},
	WinnerSelected:   {Commissioned},
	Commissioned:     {},
}

var bidTransitions = map[BidStatus][]BidStatus{
	Draft:       {Submitted, Withdrawn},
	Submitted:   {Shortlisted, Rejected, Accepted, Withdrawn},
	Shortlisted: {Revised, Accepted, Rejected},
	Revised:     {},
	Accepted:    {},
	Rejected:    {},
	Withdrawn:   {},
}

// CanTransitionForgeStatus reports whether from -> to is a legal event transition.
func CanTransitionForgeStatus(from ForgeStatus, to ForgeStatus) bool {
	for _, next := range forgeTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// CanTransitionBidStatus reports whether from -> to is a legal bid transition.
func CanTransitionBidStatus(from BidStatus, to BidStatus) bool {
	for _, next := range bidTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// IsBiddingActive reports whether the event phase still accepts round-1 bids.
func IsBiddingActive(status ForgeStatus) bool {
	return status == OpenForBids || status == CraftsmenBidding
}

func ParseBidStatus(s string) (BidStatus, error) {
	switch BidStatus(s) {
	case Draft, Submitted, Shortlisted, Revised, Accepted, Rejected, Withdrawn:
		return BidStatus(s), nil
	}

	return "", fmt.Errorf("unknown bid status %q", s)
}

func ParseForgeStatus(s string) (ForgeStatus, error) {
	switch ForgeStatus(s) {
	case BlueprintReady, OpenForBids, CraftsmenBidding, ShortlistReview, WinnerSelected, Commissioned:
		return ForgeStatus(s), nil
	}

	return "", fmt.Errorf("unknown forge status %q", s)
}
