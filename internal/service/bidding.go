package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"eventfoundry-api/internal/common"
	"eventfoundry-api/internal/entity"
	"eventfoundry-api/internal/metrics"
	"eventfoundry-api/internal/repo"
	"eventfoundry-api/internal/repo/repo_errors"
)

type BiddingService struct {
	eventRepo    repo.Event
	shortlisting Shortlisting
	pricing      Pricing
	metrics      *metrics.Metrics
	log          *slog.Logger
	now          func() time.Time
}

func NewBiddingService(repos *repo.Repositories, shortlisting Shortlisting, pricing Pricing, m *metrics.Metrics, log *slog.Logger) *BiddingService {
	return &BiddingService{
		eventRepo:    repos.Event,
		shortlisting: shortlisting,
		pricing:      pricing,
		metrics:      m,
		log:          log,
		now:          time.Now,
	}
}

// CloseBiddingWindow closes the event's round-1 bidding and finalizes the
// shortlist. Calling it on an already closed event reports a non-success
// result instead of an error, so repeated triggers are harmless.
func (s *BiddingService) CloseBiddingWindow(ctx context.Context, eventId string) (*entity.CloseWindowResult, error) {
	event, err := s.eventRepo.GetEventById(ctx, eventId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrEventNotFound
		}

		return nil, err
	}

	result := &entity.CloseWindowResult{EventId: eventId}

	if !common.IsBiddingActive(event.ForgeStatus) {
		result.Reason = "bidding window already closed or not open for bids"

		return result, nil
	}

	if event.ForgeStatus == common.OpenForBids {
		// Mark the event as mid-closure. Losing this race is fine, the
		// shortlist application below decides who actually closes it.
		_, err := s.eventRepo.UpdateForgeStatusIfCurrent(ctx, event.Id,
			[]common.ForgeStatus{common.OpenForBids}, common.CraftsmenBidding)
		if err != nil {
			return nil, err
		}
	}

	shortlist, err := s.shortlisting.ProcessShortlisting(ctx, eventId)
	if err != nil {
		if errors.Is(err, ErrNoSubmittedBids) {
			result.Reason = "no submitted bids to process"

			return result, nil
		}
		if errors.Is(err, ErrShortlistAlreadyFinal) {
			result.Reason = "shortlist already finalized"

			return result, nil
		}

		return nil, err
	}

	if _, err := s.pricing.CalculateCompetitivePricing(ctx, eventId); err != nil {
		// Pricing is a derived snapshot; the closed window must stand even
		// when the recompute fails.
		s.log.Error("competitive pricing recompute failed", "event_id", eventId, "error", err)
	}

	s.metrics.WindowsClosed.Inc()
	result.Success = true
	result.ShortlistedCount = len(shortlist.Shortlisted)
	result.RejectedCount = len(shortlist.Rejected)
	result.LowestBid = shortlist.LowestBid.StringFixed(2)

	return result, nil
}

// CheckExpiredBiddingWindows closes every event whose bidding deadline has
// passed. One failing event does not stop the sweep.
func (s *BiddingService) CheckExpiredBiddingWindows(ctx context.Context) (*entity.SweepResult, error) {
	events, err := s.eventRepo.GetExpiredBiddingEvents(ctx, s.now())
	if err != nil {
		return nil, err
	}

	sweep := &entity.SweepResult{
		TotalFound: len(events),
		Results:    make([]entity.CloseWindowResult, 0, len(events)),
	}

	for i := range events {
		eventId := events[i].Id.String()

		result, err := s.CloseBiddingWindow(ctx, eventId)
		if err != nil {
			s.log.Error("failed to close expired bidding window", "event_id", eventId, "error", err)
			sweep.Results = append(sweep.Results, entity.CloseWindowResult{
				EventId: eventId,
				Reason:  err.Error(),
			})

			continue
		}

		if result.Success {
			sweep.ClosedCount++
		}
		sweep.Results = append(sweep.Results, *result)
	}

	s.metrics.WatchdogSweeps.Inc()

	return sweep, nil
}
