package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"time"

	"eventfoundry-api/internal/common"
	"eventfoundry-api/internal/entity"
	"eventfoundry-api/internal/metrics"
	"eventfoundry-api/internal/repo"
	"eventfoundry-api/internal/repo/repo_errors"
)

type PricingService struct {
	bidRepo   repo.Bid
	eventRepo repo.Event
	metrics   *metrics.Metrics
	log       *slog.Logger
	now       func() time.Time
}

func NewPricingService(repos *repo.Repositories, m *metrics.Metrics, log *slog.Logger) *PricingService {
	return &PricingService{
		bidRepo:   repos.Bid,
		eventRepo: repos.Event,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// CalculateCompetitivePricing refreshes the pricing snapshot of every
// shortlisted bid of the event against the current lowest shortlisted bid.
// It returns the number of bids analyzed. Fewer than two shortlisted bids is
// not an error; there is just nothing to compare.
func (s *PricingService) CalculateCompetitivePricing(ctx context.Context, eventId string) (int, error) {
	_, err := s.eventRepo.GetEventById(ctx, eventId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return 0, ErrEventNotFound
		}

		return 0, err
	}

	bids, err := s.bidRepo.GetEventBidsByStatus(ctx, eventId, common.Shortlisted)
	if err != nil {
		return 0, err
	}
	if len(bids) < 2 {
		return 0, nil
	}

	sort.SliceStable(bids, func(i, j int) bool {
		return bids[i].TotalCost.LessThan(bids[j].TotalCost)
	})

	lowest := bids[0].TotalCost
	calculatedAt := s.now().UTC().Format(time.RFC3339)

	analyzed := 0
	for i := range bids {
		bid := &bids[i]

		percentage := 0.0
		position := common.PositionLowest
		if !bid.TotalCost.Equal(lowest) {
			raw := bid.TotalCost.Sub(lowest).Div(lowest).Mul(oneHundred).InexactFloat64()
			percentage = math.Round(raw*100) / 100
			position = common.PositionAboveMarket
		}

		intelligence := bid.Intelligence
		if intelligence == nil {
			intelligence = &entity.CompetitiveIntelligence{}
		}
		intelligence.LowestMarketPrice = lowest.StringFixed(2)
		intelligence.PercentageAboveLowest = percentage
		intelligence.CompetitivePosition = position
		intelligence.CalculatedAt = calculatedAt

		if err := s.bidRepo.UpdateIntelligence(ctx, bid.Id, intelligence); err != nil {
			// One failed write must not stall the rest of the shortlist.
			s.log.Error("failed to update competitive intelligence",
				"event_id", eventId, "bid_id", bid.Id, "error", err)
			continue
		}
		analyzed++
	}

	s.metrics.PricingRecomputes.Inc()

	return analyzed, nil
}

func (s *PricingService) GetCompetitiveIntelligence(ctx context.Context, bidId string) (*entity.CompetitiveIntelligence, error) {
	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}

	if bid.Intelligence == nil {
		return nil, ErrNoIntelligence
	}

	return bid.Intelligence, nil
}
