package service

import (
	"context"
	"errors"
	"time"

	"eventfoundry-api/internal/common"
	"eventfoundry-api/internal/entity"
	"eventfoundry-api/internal/repo"
	"eventfoundry-api/internal/repo/repo_errors"
)

type BidService struct {
	bidRepo       repo.Bid
	eventRepo     repo.Event
	shortlistSize int
	now           func() time.Time
}

func NewBidService(repos *repo.Repositories, shortlistSize int) *BidService {
	return &BidService{
		bidRepo:       repos.Bid,
		eventRepo:     repos.Event,
		shortlistSize: shortlistSize,
		now:           time.Now,
	}
}

func (s *BidService) CreateBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error) {
	event, err := s.eventRepo.GetEventById(ctx, input.EventId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrEventNotFound
		}

		return nil, err
	}

	if !common.IsBiddingActive(event.ForgeStatus) {
		return nil, ErrEventNotAccepting
	}
	if event.BiddingClosesAt != nil && !s.now().Before(*event.BiddingClosesAt) {
		return nil, ErrEventNotAccepting
	}

	id, err := s.bidRepo.CreateBid(ctx, input)
	if err != nil {
		return nil, err
	}

	bid, err := s.bidRepo.GetBidById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapBid(bid), nil
}

func (s *BidService) GetBidById(ctx context.Context, bidId string) (*entity.BidOutputModel, error) {
	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}

	return mapBid(bid), nil
}

// UpdateBidStatusById applies a manual status change. Only transitions from
// the bid lifecycle table are allowed, and a manual move into SHORTLISTED
// respects the shortlist capacity.
func (s *BidService) UpdateBidStatusById(ctx context.Context, bidId string, newStatus common.BidStatus) (*entity.BidOutputModel, error) {
	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}

	if !common.CanTransitionBidStatus(bid.Status, newStatus) {
		return nil, ErrIllegalStatusTransition
	}

	if newStatus == common.Shortlisted {
		count, err := s.bidRepo.CountEventBidsByStatus(ctx, bid.EventId.String(), common.Shortlisted)
		if err != nil {
			return nil, err
		}
		if count >= s.shortlistSize {
			return nil, ErrShortlistLimitReached
		}
	}

	err = s.bidRepo.UpdateBidStatusById(ctx, bidId, newStatus)
	if err != nil {
		return nil, err
	}

	bid, err = s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		return nil, err
	}

	return mapBid(bid), nil
}

func (s *BidService) GetEventBidsByRound(ctx context.Context, eventId string, round int, pg *entity.PaginationInput) ([]entity.BidOutputModel, error) {
	_, err := s.eventRepo.GetEventById(ctx, eventId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrEventNotFound
		}

		return nil, err
	}

	bids, err := s.bidRepo.GetEventBidsByRound(ctx, eventId, round, pg)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}
