package service

import (
	"context"
	"log/slog"
	"time"

	"eventfoundry-api/internal/common"
	"eventfoundry-api/internal/entity"
	"eventfoundry-api/internal/metrics"
	"eventfoundry-api/internal/notify"
	"eventfoundry-api/internal/repo"
)

type Diagnostics interface {
	Ping() error
}

type Event interface {
	CreateEvent(ctx context.Context, input *entity.CreateEventInput) (*entity.EventOutputModel, error)
	GetEventById(ctx context.Context, eventId string) (*entity.EventOutputModel, error)
	SelectWinner(ctx context.Context, eventId string, bidId string) (*entity.EventOutputModel, error)
}

type Bid interface {
	CreateBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error)
	GetBidById(ctx context.Context, bidId string) (*entity.BidOutputModel, error)
	UpdateBidStatusById(ctx context.Context, bidId string, newStatus common.BidStatus) (*entity.BidOutputModel, error)
	GetEventBidsByRound(ctx context.Context, eventId string, round int, pg *entity.PaginationInput) ([]entity.BidOutputModel, error)
}

type Shortlisting interface {
	ProcessShortlisting(ctx context.Context, eventId string) (*entity.ShortlistingResult, error)
	CreateRevisedBid(ctx context.Context, bidId string, input *entity.ReviseBidInput) (*entity.BidOutputModel, error)
	IsFinalBiddingOpen(ctx context.Context, eventId string) (bool, error)
	GetShortlistedBids(ctx context.Context, eventId string) ([]entity.BidOutputModel, error)
	CalculateShortlistingStats(ctx context.Context, eventId string) (*entity.ShortlistingStats, error)
}

type Pricing interface {
	CalculateCompetitivePricing(ctx context.Context, eventId string) (int, error)
	GetCompetitiveIntelligence(ctx context.Context, bidId string) (*entity.CompetitiveIntelligence, error)
}

type Bidding interface {
	CloseBiddingWindow(ctx context.Context, eventId string) (*entity.CloseWindowResult, error)
	CheckExpiredBiddingWindows(ctx context.Context) (*entity.SweepResult, error)
}

type Services struct {
	Diagnostics  Diagnostics
	Event        Event
	Bid          Bid
	Shortlisting Shortlisting
	Pricing      Pricing
	Bidding      Bidding
}

type Dependencies struct {
	Repos          *repo.Repositories
	Notifier       notify.Notifier
	Metrics        *metrics.Metrics
	Log            *slog.Logger
	ShortlistSize  int
	FinalBidWindow time.Duration
}

func NewServices(deps *Dependencies) *Services {
	shortlisting := NewShortlistingService(deps.Repos, deps.Notifier, deps.Metrics, deps.ShortlistSize, deps.FinalBidWindow)
	pricing := NewPricingService(deps.Repos, deps.Metrics, deps.Log)
	bidding := NewBiddingService(deps.Repos, shortlisting, pricing, deps.Metrics, deps.Log)

	return &Services{
		Diagnostics:  NewDiagnosticsService(deps.Repos),
		Event:        NewEventService(deps.Repos, deps.Notifier, deps.Metrics),
		Bid:          NewBidService(deps.Repos, deps.ShortlistSize),
		Shortlisting: shortlisting,
		Pricing:      pricing,
		Bidding:      bidding,
	}
}
