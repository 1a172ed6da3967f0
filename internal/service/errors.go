package service

import "errors"

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrBidNotFound       = errors.New("bid not found")
	ErrEventBidMismatch  = errors.New("bid does not belong to the event")
	ErrNoIntelligence    = errors.New("no competitive intelligence available for the bid")
	ErrEventNotAccepting = errors.New("event is not accepting bids")

	ErrNoSubmittedBids          = errors.New("no submitted bids to process")
	ErrShortlistAlreadyFinal    = errors.New("shortlist already finalized for the event")
	ErrShortlistLimitReached    = errors.New("shortlist is full")
	ErrBidNotShortlisted        = errors.New("only shortlisted bids can be revised")
	ErrBidAlreadyRevised        = errors.New("bid has already been revised")
	ErrFinalBiddingClosed       = errors.New("final bidding window is closed")
	ErrIllegalStatusTransition  = errors.New("status transition is not allowed")
	ErrBidNotSelectable         = errors.New("bid is not selectable as a winner")
	ErrEventNotAwaitingDecision = errors.New("event is not awaiting a winner decision")
)
