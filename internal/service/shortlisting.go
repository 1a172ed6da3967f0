package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"eventfoundry-api/internal/common"
	"eventfoundry-api/internal/entity"
	"eventfoundry-api/internal/metrics"
	"eventfoundry-api/internal/notify"
	"eventfoundry-api/internal/repo"
	"eventfoundry-api/internal/repo/repo_errors"
)

var oneHundred = decimal.NewFromInt(100)

type ShortlistingService struct {
	bidRepo        repo.Bid
	eventRepo      repo.Event
	notifier       notify.Notifier
	metrics        *metrics.Metrics
	shortlistSize  int
	finalBidWindow time.Duration
	now            func() time.Time
}

func NewShortlistingService(repos *repo.Repositories, notifier notify.Notifier, m *metrics.Metrics, shortlistSize int, finalBidWindow time.Duration) *ShortlistingService {
	return &ShortlistingService{
		bidRepo:        repos.Bid,
		eventRepo:      repos.Event,
		notifier:       notifier,
		metrics:        m,
		shortlistSize:  shortlistSize,
		finalBidWindow: finalBidWindow,
		now:            time.Now,
	}
}

// premiumOverLowest is the percentage a bid sits above the lowest bid,
// rounded to one decimal place.
func premiumOverLowest(cost decimal.Decimal, lowest decimal.Decimal) float64 {
	if lowest.IsZero() {
		return 0
	}

	premium := cost.Sub(lowest).Div(lowest).Mul(oneHundred).InexactFloat64()

	return math.Round(premium*10) / 10
}

func intelligenceMessage(position int, premium float64, window time.Duration) string {
	hours := int(window.Hours())

	if position == 1 {
		return fmt.Sprintf("Congratulations! You submitted the lowest bid and are ranked #1. "+
			"You have %d hours to submit your final bid or keep your current offer.", hours)
	}

	premiumText := "at the same price as the lowest bid"
	if premium != 0 {
		premiumText = fmt.Sprintf("%.1f%% above the lowest bid", premium)
	}

	return fmt.Sprintf("You're ranked #%d and are %s. "+
		"You have %d hours to submit your final competitive bid. Consider your pricing carefully.",
		position, premiumText, hours)
}

// ProcessShortlisting ranks the event's submitted bids by total cost, keeps
// the configured number of cheapest bids, rejects the rest and opens the
// final bidding window. Re-running it for an already finalized event returns
// ErrShortlistAlreadyFinal without touching any bid.
func (s *ShortlistingService) ProcessShortlisting(ctx context.Context, eventId string) (*entity.ShortlistingResult, error) {
	event, err := s.eventRepo.GetEventById(ctx, eventId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrEventNotFound
		}

		return nil, err
	}

	if !common.IsBiddingActive(event.ForgeStatus) {
		return nil, ErrShortlistAlreadyFinal
	}

	bids, err := s.bidRepo.GetEventBidsByStatus(ctx, eventId, common.Submitted)
	if err != nil {
		return nil, err
	}
	if len(bids) == 0 {
		return nil, ErrNoSubmittedBids
	}

	// Ties keep submission order.
	sort.SliceStable(bids, func(i, j int) bool {
		return bids[i].TotalCost.LessThan(bids[j].TotalCost)
	})

	limit := min(s.shortlistSize, len(bids))
	shortlisted := bids[:limit]
	rejected := bids[limit:]

	lowest := shortlisted[0].TotalCost
	now := s.now()
	finalDeadline := now.Add(s.finalBidWindow)

	updates := make([]entity.ShortlistUpdate, 0, len(shortlisted))
	for i := range shortlisted {
		position := i + 1
		premium := premiumOverLowest(shortlisted[i].TotalCost, lowest)

		updates = append(updates, entity.ShortlistUpdate{
			BidId: shortlisted[i].Id,
			Intelligence: entity.CompetitiveIntelligence{
				Position:          position,
				PremiumPercentage: premium,
				LowestBidAmount:   lowest.StringFixed(2),
				TotalShortlisted:  len(shortlisted),
				FinalDeadline:     finalDeadline.UTC().Format(time.RFC3339),
				Message:           intelligenceMessage(position, premium, s.finalBidWindow),
			},
		})
	}

	rejectedIds := make([]uuid.UUID, 0, len(rejected))
	for i := range rejected {
		rejectedIds = append(rejectedIds, rejected[i].Id)
	}

	err = s.bidRepo.ApplyShortlist(ctx, event.Id, updates, rejectedIds, now, finalDeadline)
	if err != nil {
		if errors.Is(err, repo_errors.ErrStaleStatus) {
			return nil, ErrShortlistAlreadyFinal
		}

		return nil, err
	}

	for i := range updates {
		s.notifier.BidShortlisted(eventId, shortlisted[i].Id.String(), shortlisted[i].VendorId.String(),
			updates[i].Intelligence.Position, updates[i].Intelligence.Message)
	}
	for i := range rejected {
		s.notifier.BidRejected(eventId, rejected[i].Id.String(), rejected[i].VendorId.String())
	}

	s.metrics.ShortlistingRuns.Inc()
	s.metrics.BidsShortlisted.Add(float64(len(shortlisted)))
	s.metrics.BidsRejected.Add(float64(len(rejected)))

	return &entity.ShortlistingResult{
		Shortlisted: shortlisted,
		Rejected:    rejected,
		LowestBid:   lowest,
	}, nil
}

// CreateRevisedBid files the vendor's single round-2 bid while the final
// bidding window is open. The original bid becomes REVISED and stays that way.
func (s *ShortlistingService) CreateRevisedBid(ctx context.Context, bidId string, input *entity.ReviseBidInput) (*entity.BidOutputModel, error) {
	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}

	if bid.Status == common.Revised {
		return nil, ErrBidAlreadyRevised
	}
	if bid.Status != common.Shortlisted {
		return nil, ErrBidNotShortlisted
	}

	event, err := s.eventRepo.GetEventById(ctx, bid.EventId.String())
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrEventNotFound
		}

		return nil, err
	}

	if !s.finalBiddingOpen(event) {
		return nil, ErrFinalBiddingClosed
	}

	// Notes carry over from the original unless the revision replaces them.
	if input.VendorNotes == "" {
		input.VendorNotes = bid.VendorNotes
	}

	revisionId, err := s.bidRepo.CreateRevision(ctx, bid, input, s.now())
	if err != nil {
		if errors.Is(err, repo_errors.ErrStaleStatus) {
			return nil, ErrBidAlreadyRevised
		}

		return nil, err
	}

	s.notifier.BidRevised(bid.EventId.String(), bid.Id.String(), revisionId.String())
	s.metrics.BidRevisions.Inc()

	revision, err := s.bidRepo.GetBidById(ctx, revisionId.String())
	if err != nil {
		return nil, err
	}

	return mapBid(revision), nil
}

func (s *ShortlistingService) finalBiddingOpen(event *entity.Event) bool {
	if event.ForgeStatus != common.ShortlistReview {
		return false
	}
	if event.FinalBiddingClosesAt == nil {
		return false
	}

	return s.now().Before(*event.FinalBiddingClosesAt)
}

func (s *ShortlistingService) IsFinalBiddingOpen(ctx context.Context, eventId string) (bool, error) {
	event, err := s.eventRepo.GetEventById(ctx, eventId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return false, ErrEventNotFound
		}

		return false, err
	}

	return s.finalBiddingOpen(event), nil
}

func (s *ShortlistingService) GetShortlistedBids(ctx context.Context, eventId string) ([]entity.BidOutputModel, error) {
	_, err := s.eventRepo.GetEventById(ctx, eventId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrEventNotFound
		}

		return nil, err
	}

	bids, err := s.bidRepo.GetEventBidsByStatus(ctx, eventId, common.Shortlisted)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

// CalculateShortlistingStats summarizes the event's submitted round-1 bids.
func (s *ShortlistingService) CalculateShortlistingStats(ctx context.Context, eventId string) (*entity.ShortlistingStats, error) {
	_, err := s.eventRepo.GetEventById(ctx, eventId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrEventNotFound
		}

		return nil, err
	}

	bids, err := s.bidRepo.GetEventBidsByStatus(ctx, eventId, common.Submitted)
	if err != nil {
		return nil, err
	}
	if len(bids) == 0 {
		return nil, ErrNoSubmittedBids
	}

	sort.SliceStable(bids, func(i, j int) bool {
		return bids[i].TotalCost.LessThan(bids[j].TotalCost)
	})

	sum := decimal.Zero
	for i := range bids {
		sum = sum.Add(bids[i].TotalCost)
	}

	return &entity.ShortlistingStats{
		TotalBids:  len(bids),
		LowestBid:  bids[0].TotalCost,
		HighestBid: bids[len(bids)-1].TotalCost,
		AverageBid: sum.DivRound(decimal.NewFromInt(int64(len(bids))), 2),
		MedianBid:  bids[len(bids)/2].TotalCost,
	}, nil
}
