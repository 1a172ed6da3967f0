package service

import (
	"context"
	"errors"

	"eventfoundry-api/internal/common"
	"eventfoundry-api/internal/entity"
	"eventfoundry-api/internal/metrics"
	"eventfoundry-api/internal/notify"
	"eventfoundry-api/internal/repo"
	"eventfoundry-api/internal/repo/repo_errors"
)

type EventService struct {
	eventRepo repo.Event
	bidRepo   repo.Bid
	notifier  notify.Notifier
	metrics   *metrics.Metrics
}

func NewEventService(repos *repo.Repositories, notifier notify.Notifier, m *metrics.Metrics) *EventService {
	return &EventService{
		eventRepo: repos.Event,
		bidRepo:   repos.Bid,
		notifier:  notifier,
		metrics:   m,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, input *entity.CreateEventInput) (*entity.EventOutputModel, error) {
	id, err := s.eventRepo.CreateEvent(ctx, input)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetEventById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapEvent(event), nil
}

func (s *EventService) GetEventById(ctx context.Context, eventId string) (*entity.EventOutputModel, error) {
	event, err := s.eventRepo.GetEventById(ctx, eventId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrEventNotFound
		}

		return nil, err
	}

	return mapEvent(event), nil
}

// A bid may win while SHORTLISTED (round 1) or while it is a live round-2
// final bid. REVISED originals and rejected bids are out.
func isSelectableWinner(bid *entity.Bid) bool {
	if bid.Status == common.Shortlisted {
		return true
	}

	return bid.Status == common.Submitted && bid.BidRound == 2
}

// SelectWinner accepts the chosen bid and moves the event to
// WINNER_SELECTED. Competing bids keep their current status so the full
// bidding history stays readable.
func (s *EventService) SelectWinner(ctx context.Context, eventId string, bidId string) (*entity.EventOutputModel, error) {
	event, err := s.eventRepo.GetEventById(ctx, eventId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrEventNotFound
		}

		return nil, err
	}

	if !common.CanTransitionForgeStatus(event.ForgeStatus, common.WinnerSelected) {
		return nil, ErrEventNotAwaitingDecision
	}

	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}

	if bid.EventId != event.Id {
		return nil, ErrEventBidMismatch
	}
	if !isSelectableWinner(bid) {
		return nil, ErrBidNotSelectable
	}

	err = s.eventRepo.SelectWinner(ctx, event.Id, bid.Id, bid.Status)
	if err != nil {
		if errors.Is(err, repo_errors.ErrStaleStatus) {
			return nil, ErrBidNotSelectable
		}

		return nil, err
	}

	s.notifier.WinnerSelected(eventId, bidId, bid.VendorId.String())
	s.metrics.WinnersSelected.Inc()

	event, err = s.eventRepo.GetEventById(ctx, eventId)
	if err != nil {
		return nil, err
	}

	return mapEvent(event), nil
}
