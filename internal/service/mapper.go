package service

import (
	"time"

	"eventfoundry-api/internal/entity"
)

func mapEvent(e *entity.Event) *entity.EventOutputModel {
	out := &entity.EventOutputModel{
		Id:          e.Id.String(),
		Title:       e.Title,
		EventType:   e.EventType,
		ForgeStatus: string(e.ForgeStatus),
		CreatedAt:   e.CreatedAt,
	}

	if e.BiddingClosesAt != nil {
		out.BiddingClosesAt = e.BiddingClosesAt.Format(time.RFC3339)
	}
	if e.ShortlistFinalizedAt != nil {
		out.ShortlistFinalizedAt = e.ShortlistFinalizedAt.Format(time.RFC3339)
	}
	if e.FinalBiddingClosesAt != nil {
		out.FinalBiddingClosesAt = e.FinalBiddingClosesAt.Format(time.RFC3339)
	}
	if e.WinnerBidId != nil {
		out.WinnerBidId = e.WinnerBidId.String()
	}

	return out
}

func mapBid(b *entity.Bid) *entity.BidOutputModel {
	out := &entity.BidOutputModel{
		Id:                 b.Id.String(),
		EventId:            b.EventId.String(),
		VendorId:           b.VendorId.String(),
		TotalCost:          b.TotalCost.StringFixed(2),
		Status:             string(b.Status),
		BidRound:           b.BidRound,
		IsFinalBid:         b.IsFinalBid,
		Intelligence:       b.Intelligence,
		VendorNotes:        b.VendorNotes,
		EstimatedForgeTime: b.EstimatedForgeTime,
		CreatedAt:          b.CreatedAt,
	}

	if b.RevisedFromBidId != nil {
		out.RevisedFromBidId = b.RevisedFromBidId.String()
	}

	return out
}

func mapBids(b []entity.Bid) []entity.BidOutputModel {
	s := make([]entity.BidOutputModel, 0)
	for _, bid := range b {
		s = append(s, *mapBid(&bid))
	}

	return s
}
