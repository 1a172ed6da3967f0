package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"eventfoundry-api/internal/common"
	"eventfoundry-api/internal/entity"
)

func sampleBidInput(eventId string) *entity.CreateBidInput {
	return &entity.CreateBidInput{
		EventId:            eventId,
		VendorId:           "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		CraftSpecialties:   []string{"blacksmithing"},
		Subtotal:           mustDecimal("900"),
		Taxes:              mustDecimal("100"),
		TotalCost:          mustDecimal("1000"),
		EstimatedForgeTime: "3 weeks",
	}
}

func TestCreateBid(t *testing.T) {
	store := newFakeStore()
	s := newBidForTest(store, 5)

	closesAt := testNow.Add(time.Hour)
	event := store.addEvent(common.OpenForBids, &closesAt)

	out, err := s.CreateBid(context.Background(), sampleBidInput(event.Id.String()))
	assert.NoError(t, err)

	check.Equal(t, string(common.Submitted), out.Status)
	check.Equal(t, 1, out.BidRound)
	check.Equal(t, "1000.00", out.TotalCost)
	check.False(t, out.IsFinalBid)
}

func TestCreateBidAfterDeadline(t *testing.T) {
	store := newFakeStore()
	s := newBidForTest(store, 5)

	closesAt := testNow.Add(-time.Minute)
	event := store.addEvent(common.OpenForBids, &closesAt)

	_, err := s.CreateBid(context.Background(), sampleBidInput(event.Id.String()))
	check.Equal(t, ErrEventNotAccepting, err, cmpopts.EquateErrors())
}

func TestCreateBidClosedPhase(t *testing.T) {
	store := newFakeStore()
	s := newBidForTest(store, 5)

	event := store.addEvent(common.ShortlistReview, nil)

	_, err := s.CreateBid(context.Background(), sampleBidInput(event.Id.String()))
	check.Equal(t, ErrEventNotAccepting, err, cmpopts.EquateErrors())
}

func TestCreateBidUnknownEvent(t *testing.T) {
	store := newFakeStore()
	s := newBidForTest(store, 5)

	_, err := s.CreateBid(context.Background(), sampleBidInput("1b4e28ba-2fa1-11d2-883f-0016d3cca427"))
	check.Equal(t, ErrEventNotFound, err, cmpopts.EquateErrors())
}

func TestUpdateBidStatusById(t *testing.T) {
	store := newFakeStore()
	s := newBidForTest(store, 5)

	event := store.addEvent(common.OpenForBids, nil)
	bid := store.addBid(event.Id, "1000", common.Submitted)

	out, err := s.UpdateBidStatusById(context.Background(), bid.Id.String(), common.Withdrawn)
	assert.NoError(t, err)
	check.Equal(t, string(common.Withdrawn), out.Status)
}

func TestUpdateBidStatusIllegalTransition(t *testing.T) {
	store := newFakeStore()
	s := newBidForTest(store, 5)

	event := store.addEvent(common.OpenForBids, nil)
	bid := store.addBid(event.Id, "1000", common.Rejected)

	_, err := s.UpdateBidStatusById(context.Background(), bid.Id.String(), common.Submitted)
	check.Equal(t, ErrIllegalStatusTransition, err, cmpopts.EquateErrors())
	check.Equal(t, common.Rejected, store.findBid(bid.Id).Status)
}

func TestUpdateBidStatusShortlistCapacity(t *testing.T) {
	store := newFakeStore()
	s := newBidForTest(store, 2)

	event := store.addEvent(common.CraftsmenBidding, nil)
	store.addBid(event.Id, "1000", common.Shortlisted)
	store.addBid(event.Id, "1100", common.Shortlisted)
	extra := store.addBid(event.Id, "1200", common.Submitted)

	_, err := s.UpdateBidStatusById(context.Background(), extra.Id.String(), common.Shortlisted)
	check.Equal(t, ErrShortlistLimitReached, err, cmpopts.EquateErrors())
	check.Equal(t, common.Submitted, store.findBid(extra.Id).Status)
}

func TestUpdateBidStatusSetsRejectionTime(t *testing.T) {
	store := newFakeStore()
	s := newBidForTest(store, 5)

	event := store.addEvent(common.CraftsmenBidding, nil)
	bid := store.addBid(event.Id, "1000", common.Submitted)

	_, err := s.UpdateBidStatusById(context.Background(), bid.Id.String(), common.Rejected)
	assert.NoError(t, err)
	check.True(t, store.findBid(bid.Id).RejectedAt != nil)
}

func TestGetEventBidsByRound(t *testing.T) {
	store := newFakeStore()
	s := newBidForTest(store, 5)

	event := store.addEvent(common.ShortlistReview, nil)
	store.addBid(event.Id, "1500", common.Revised)
	cheap := store.addBid(event.Id, "1200", common.Revised)
	revision := store.addBid(event.Id, "1100", common.Submitted)
	revision.BidRound = 2

	roundOne, err := s.GetEventBidsByRound(context.Background(), event.Id.String(), 1, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(roundOne))
	check.Equal(t, cheap.Id.String(), roundOne[0].Id)

	roundTwo, err := s.GetEventBidsByRound(context.Background(), event.Id.String(), 2, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(roundTwo))
	check.Equal(t, revision.Id.String(), roundTwo[0].Id)
}

func TestGetEventBidsByRoundPagination(t *testing.T) {
	store := newFakeStore()
	s := newBidForTest(store, 5)

	event := store.addEvent(common.ShortlistReview, nil)
	store.addBid(event.Id, "1000", common.Shortlisted)
	second := store.addBid(event.Id, "1100", common.Shortlisted)
	store.addBid(event.Id, "1200", common.Shortlisted)

	page, err := s.GetEventBidsByRound(context.Background(), event.Id.String(), 1,
		&entity.PaginationInput{Limit: 1, Offset: 1})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(page))
	check.Equal(t, second.Id.String(), page[0].Id)

	empty, err := s.GetEventBidsByRound(context.Background(), event.Id.String(), 1,
		&entity.PaginationInput{Limit: 10, Offset: 10})
	assert.NoError(t, err)
	check.Equal(t, 0, len(empty))
}

func TestGetBidByIdNotFound(t *testing.T) {
	store := newFakeStore()
	s := newBidForTest(store, 5)

	_, err := s.GetBidById(context.Background(), "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	check.Equal(t, ErrBidNotFound, err, cmpopts.EquateErrors())
}
