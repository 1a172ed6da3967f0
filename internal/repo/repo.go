package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"eventfoundry-api/internal/common"
	"eventfoundry-api/internal/entity"
	"eventfoundry-api/internal/repo/pgdb"
	"eventfoundry-api/pkg/postgres"
)

type Diagnostics interface {
	Ping() error
}

type Event interface {
	CreateEvent(ctx context.Context, input *entity.CreateEventInput) (uuid.UUID, error)
	GetEventById(ctx context.Context, id string) (*entity.Event, error)
	// GetExpiredBiddingEvents returns events still in a bidding-active phase
	// whose bidding deadline is non-null and earlier than now.
	GetExpiredBiddingEvents(ctx context.Context, now time.Time) ([]entity.Event, error)
	// UpdateForgeStatusIfCurrent flips the event phase only when the stored
	// phase is one of from; reports whether a row was updated.
	UpdateForgeStatusIfCurrent(ctx context.Context, id uuid.UUID, from []common.ForgeStatus, to common.ForgeStatus) (bool, error)
	// SelectWinner marks the bid accepted and the event WINNER_SELECTED in one
	// transaction. The bid flip is conditional on its current status.
	SelectWinner(ctx context.Context, eventId uuid.UUID, bidId uuid.UUID, fromBidStatus common.BidStatus) error
}

type Bid interface {
	CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error)
	GetBidById(ctx context.Context, id string) (*entity.Bid, error)
	// GetEventBidsByStatus returns the event's bids in the given status,
	// ascending by total cost.
	GetEventBidsByStatus(ctx context.Context, eventId string, status common.BidStatus) ([]entity.Bid, error)
	GetEventBidsByRound(ctx context.Context, eventId string, round int, pg *entity.PaginationInput) ([]entity.Bid, error)
	CountEventBidsByStatus(ctx context.Context, eventId string, status common.BidStatus) (int, error)
	UpdateBidStatusById(ctx context.Context, id string, newStatus common.BidStatus) error
	// ApplyShortlist persists one shortlisting outcome atomically: shortlisted
	// bids get status, timestamps and intelligence; rejected bids get status
	// and timestamp; the event advances to SHORTLIST_REVIEW. The event advance
	// is conditional on a bidding-active phase; ErrStaleStatus means another
	// run already processed the event.
	ApplyShortlist(ctx context.Context, eventId uuid.UUID, shortlisted []entity.ShortlistUpdate, rejectedIds []uuid.UUID, now time.Time, finalDeadline time.Time) error
	// UpdateIntelligence replaces the stored intelligence payload without
	// touching bid status.
	UpdateIntelligence(ctx context.Context, bidId uuid.UUID, intelligence *entity.CompetitiveIntelligence) error
	// CreateRevision inserts the round-2 bid and flips the original to REVISED
	// in one transaction. The flip is conditional on the original still being
	// SHORTLISTED; ErrStaleStatus means it was already revised or moved on.
	CreateRevision(ctx context.Context, original *entity.Bid, input *entity.ReviseBidInput, now time.Time) (uuid.UUID, error)
}

type Repositories struct {
	Diagnostics
	Event
	Bid
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics: pgdb.NewDiagnosticsRepo(p),
		Event:       pgdb.NewEventRepo(p),
		Bid:         pgdb.NewBidRepo(p),
	}
}
