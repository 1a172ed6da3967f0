package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"eventfoundry-api/internal/common"
	"eventfoundry-api/internal/entity"
	"eventfoundry-api/internal/metrics"
	"eventfoundry-api/internal/repo"
	"eventfoundry-api/internal/repo/repo_errors"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeStore is an in-memory stand-in for the postgres repositories. It keeps
// the same conditional-update semantics the pgdb layer relies on.
type fakeStore struct {
	events []*entity.Event
	bids   []*entity.Bid
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) repositories() *repo.Repositories {
	return &repo.Repositories{Diagnostics: f, Event: f, Bid: f}
}

func (f *fakeStore) Ping() error { return nil }

func (f *fakeStore) addEvent(status common.ForgeStatus, biddingClosesAt *time.Time) *entity.Event {
	event := &entity.Event{
		Id:              uuid.New(),
		Title:           "Iron Gate Commission",
		EventType:       "metalwork",
		OwnerUserId:     uuid.New(),
		ForgeStatus:     status,
		BiddingClosesAt: biddingClosesAt,
		CreatedAt:       testNow.Format(time.RFC3339),
	}
	f.events = append(f.events, event)

	return event
}

func (f *fakeStore) addBid(eventId uuid.UUID, cost string, status common.BidStatus) *entity.Bid {
	total := decimal.RequireFromString(cost)
	bid := &entity.Bid{
		Id:        uuid.New(),
		EventId:   eventId,
		VendorId:  uuid.New(),
		Subtotal:  total,
		Taxes:     decimal.Zero,
		TotalCost: total,
		Status:    status,
		BidRound:  1,
		CreatedAt: testNow.Format(time.RFC3339),
	}
	f.bids = append(f.bids, bid)

	return bid
}

func (f *fakeStore) findEvent(id uuid.UUID) *entity.Event {
	for _, event := range f.events {
		if event.Id == id {
			return event
		}
	}

	return nil
}

func (f *fakeStore) findBid(id uuid.UUID) *entity.Bid {
	for _, bid := range f.bids {
		if bid.Id == id {
			return bid
		}
	}

	return nil
}

func (f *fakeStore) CreateEvent(ctx context.Context, input *entity.CreateEventInput) (uuid.UUID, error) {
	ownerId, err := uuid.Parse(input.OwnerUserId)
	if err != nil {
		return uuid.Nil, err
	}

	event := &entity.Event{
		Id:              uuid.New(),
		Title:           input.Title,
		EventType:       input.EventType,
		OwnerUserId:     ownerId,
		ForgeStatus:     common.OpenForBids,
		BiddingClosesAt: input.BiddingClosesAt,
		CreatedAt:       testNow.Format(time.RFC3339),
	}
	f.events = append(f.events, event)

	return event.Id, nil
}

func (f *fakeStore) GetEventById(ctx context.Context, id string) (*entity.Event, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	event := f.findEvent(uuidForm)
	if event == nil {
		return nil, repo_errors.ErrNotFound
	}

	copied := *event

	return &copied, nil
}

func (f *fakeStore) GetExpiredBiddingEvents(ctx context.Context, now time.Time) ([]entity.Event, error) {
	expired := make([]entity.Event, 0)
	for _, event := range f.events {
		if !common.IsBiddingActive(event.ForgeStatus) {
			continue
		}
		if event.BiddingClosesAt == nil || !event.BiddingClosesAt.Before(now) {
			continue
		}
		expired = append(expired, *event)
	}

	return expired, nil
}

func (f *fakeStore) UpdateForgeStatusIfCurrent(ctx context.Context, id uuid.UUID, from []common.ForgeStatus, to common.ForgeStatus) (bool, error) {
	event := f.findEvent(id)
	if event == nil {
		return false, nil
	}

	for _, status := range from {
		if event.ForgeStatus == status {
			event.ForgeStatus = to

			return true, nil
		}
	}

	return false, nil
}

func (f *fakeStore) SelectWinner(ctx context.Context, eventId uuid.UUID, bidId uuid.UUID, fromBidStatus common.BidStatus) error {
	bid := f.findBid(bidId)
	if bid == nil || bid.Status != fromBidStatus {
		return repo_errors.ErrStaleStatus
	}

	event := f.findEvent(eventId)
	if event == nil || event.ForgeStatus != common.ShortlistReview {
		return repo_errors.ErrStaleStatus
	}

	bid.Status = common.Accepted
	event.ForgeStatus = common.WinnerSelected
	winnerId := bidId
	event.WinnerBidId = &winnerId

	return nil
}

func (f *fakeStore) CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error) {
	eventId, err := uuid.Parse(input.EventId)
	if err != nil {
		return uuid.Nil, err
	}

	vendorId, err := uuid.Parse(input.VendorId)
	if err != nil {
		return uuid.Nil, err
	}

	bid := &entity.Bid{
		Id:                 uuid.New(),
		EventId:            eventId,
		VendorId:           vendorId,
		CraftSpecialties:   input.CraftSpecialties,
		ForgeItems:         input.ForgeItems,
		Subtotal:           input.Subtotal,
		Taxes:              input.Taxes,
		TotalCost:          input.TotalCost,
		CraftAttachments:   input.CraftAttachments,
		VendorNotes:        input.VendorNotes,
		EstimatedForgeTime: input.EstimatedForgeTime,
		Status:             common.Submitted,
		BidRound:           1,
		CreatedAt:          testNow.Format(time.RFC3339),
	}
	f.bids = append(f.bids, bid)

	return bid.Id, nil
}

func (f *fakeStore) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	bid := f.findBid(uuidForm)
	if bid == nil {
		return nil, repo_errors.ErrNotFound
	}

	copied := *bid

	return &copied, nil
}

func (f *fakeStore) eventBids(eventId uuid.UUID) []entity.Bid {
	bids := make([]entity.Bid, 0)
	for _, bid := range f.bids {
		if bid.EventId == eventId {
			bids = append(bids, *bid)
		}
	}

	return bids
}

func (f *fakeStore) GetEventBidsByStatus(ctx context.Context, eventId string, status common.BidStatus) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(eventId)
	if err != nil {
		return nil, err
	}

	bids := make([]entity.Bid, 0)
	for _, bid := range f.eventBids(uuidForm) {
		if bid.Status == status {
			bids = append(bids, bid)
		}
	}
	sort.SliceStable(bids, func(i, j int) bool {
		return bids[i].TotalCost.LessThan(bids[j].TotalCost)
	})

	return bids, nil
}

func (f *fakeStore) GetEventBidsByRound(ctx context.Context, eventId string, round int, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(eventId)
	if err != nil {
		return nil, err
	}

	bids := make([]entity.Bid, 0)
	for _, bid := range f.eventBids(uuidForm) {
		if bid.BidRound == round {
			bids = append(bids, bid)
		}
	}
	sort.SliceStable(bids, func(i, j int) bool {
		return bids[i].TotalCost.LessThan(bids[j].TotalCost)
	})

	if pg != nil {
		if pg.Offset >= len(bids) {
			return []entity.Bid{}, nil
		}
		bids = bids[pg.Offset:]
		if pg.Limit < len(bids) {
			bids = bids[:pg.Limit]
		}
	}

	return bids, nil
}

func (f *fakeStore) CountEventBidsByStatus(ctx context.Context, eventId string, status common.BidStatus) (int, error) {
	bids, err := f.GetEventBidsByStatus(ctx, eventId, status)
	if err != nil {
		return 0, err
	}

	return len(bids), nil
}

func (f *fakeStore) UpdateBidStatusById(ctx context.Context, id string, newStatus common.BidStatus) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	bid := f.findBid(uuidForm)
	if bid == nil {
		return repo_errors.ErrNotFound
	}

	bid.Status = newStatus
	if newStatus == common.Rejected {
		rejectedAt := testNow
		bid.RejectedAt = &rejectedAt
	}

	return nil
}

func (f *fakeStore) ApplyShortlist(ctx context.Context, eventId uuid.UUID, shortlisted []entity.ShortlistUpdate, rejectedIds []uuid.UUID, now time.Time, finalDeadline time.Time) error {
	event := f.findEvent(eventId)
	if event == nil || !common.IsBiddingActive(event.ForgeStatus) {
		return repo_errors.ErrStaleStatus
	}

	event.ForgeStatus = common.ShortlistReview
	finalized := now
	deadline := finalDeadline
	event.ShortlistFinalizedAt = &finalized
	event.FinalBiddingClosesAt = &deadline

	for _, update := range shortlisted {
		bid := f.findBid(update.BidId)
		if bid == nil || bid.Status != common.Submitted {
			continue
		}
		intelligence := update.Intelligence
		bid.Status = common.Shortlisted
		bid.Intelligence = &intelligence
		shortlistedAt := now
		bid.ShortlistedAt = &shortlistedAt
	}

	for _, id := range rejectedIds {
		bid := f.findBid(id)
		if bid == nil || bid.Status != common.Submitted {
			continue
		}
		bid.Status = common.Rejected
		rejectedAt := now
		bid.RejectedAt = &rejectedAt
	}

	return nil
}

func (f *fakeStore) UpdateIntelligence(ctx context.Context, bidId uuid.UUID, intelligence *entity.CompetitiveIntelligence) error {
	bid := f.findBid(bidId)
	if bid == nil {
		return repo_errors.ErrNotFound
	}

	copied := *intelligence
	bid.Intelligence = &copied

	return nil
}

func (f *fakeStore) CreateRevision(ctx context.Context, original *entity.Bid, input *entity.ReviseBidInput, now time.Time) (uuid.UUID, error) {
	stored := f.findBid(original.Id)
	if stored == nil || stored.Status != common.Shortlisted {
		return uuid.Nil, repo_errors.ErrStaleStatus
	}

	stored.Status = common.Revised

	originalId := stored.Id
	revision := &entity.Bid{
		Id:                 uuid.New(),
		EventId:            stored.EventId,
		VendorId:           stored.VendorId,
		CraftSpecialties:   stored.CraftSpecialties,
		ForgeItems:         input.ForgeItems,
		Subtotal:           input.Subtotal,
		Taxes:              input.Taxes,
		TotalCost:          input.TotalCost,
		CraftAttachments:   stored.CraftAttachments,
		VendorNotes:        input.VendorNotes,
		EstimatedForgeTime: stored.EstimatedForgeTime,
		Status:             common.Submitted,
		BidRound:           2,
		IsFinalBid:         true,
		RevisedFromBidId:   &originalId,
		CreatedAt:          now.Format(time.RFC3339),
	}
	f.bids = append(f.bids, revision)

	return revision.Id, nil
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	shortlisted []string
	rejected    []string
	revised     []string
	winners     []string
	messages    []string
}

func (n *recordingNotifier) BidShortlisted(eventId string, bidId string, vendorId string, position int, message string) {
	n.shortlisted = append(n.shortlisted, bidId)
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) BidRejected(eventId string, bidId string, vendorId string) {
	n.rejected = append(n.rejected, bidId)
}

func (n *recordingNotifier) BidRevised(eventId string, originalBidId string, revisionBidId string) {
	n.revised = append(n.revised, revisionBidId)
}

func (n *recordingNotifier) WinnerSelected(eventId string, bidId string, vendorId string) {
	n.winners = append(n.winners, bidId)
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newShortlistingForTest(store *fakeStore, notifier *recordingNotifier, size int) *ShortlistingService {
	s := NewShortlistingService(store.repositories(), notifier, testMetrics(), size, 48*time.Hour)
	s.now = func() time.Time { return testNow }

	return s
}

func newPricingForTest(store *fakeStore) *PricingService {
	s := NewPricingService(store.repositories(), testMetrics(), testLogger())
	s.now = func() time.Time { return testNow }

	return s
}

func newEventForTest(store *fakeStore, notifier *recordingNotifier) *EventService {
	return NewEventService(store.repositories(), notifier, testMetrics())
}

func newBidForTest(store *fakeStore, size int) *BidService {
	s := NewBidService(store.repositories(), size)
	s.now = func() time.Time { return testNow }

	return s
}

func newBiddingForTest(store *fakeStore, notifier *recordingNotifier) *BiddingService {
	shortlisting := newShortlistingForTest(store, notifier, 5)
	pricing := newPricingForTest(store)
	s := NewBiddingService(store.repositories(), shortlisting, pricing, testMetrics(), testLogger())
	s.now = func() time.Time { return testNow }

	return s
}
