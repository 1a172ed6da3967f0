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

func TestCreateEvent(t *testing.T) {
	store := newFakeStore()
	s := newEventForTest(store, &recordingNotifier{})

	closesAt := testNow.Add(72 * time.Hour)
	out, err := s.CreateEvent(context.Background(), &entity.CreateEventInput{
		Title:           "Wrought Iron Balcony Rails",
		EventType:       "metalwork",
		OwnerUserId:     "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		BiddingClosesAt: &closesAt,
	})
	assert.NoError(t, err)

	check.Equal(t, "Wrought Iron Balcony Rails", out.Title)
	check.Equal(t, string(common.OpenForBids), out.ForgeStatus)
	check.Equal(t, closesAt.Format(time.RFC3339), out.BiddingClosesAt)
}

func TestGetEventByIdNotFound(t *testing.T) {
	store := newFakeStore()
	s := newEventForTest(store, &recordingNotifier{})

	_, err := s.GetEventById(context.Background(), "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	check.Equal(t, ErrEventNotFound, err, cmpopts.EquateErrors())
}

func TestSelectWinnerFromShortlist(t *testing.T) {
	store := newFakeStore()
	notifier := &recordingNotifier{}
	s := newEventForTest(store, notifier)

	event := store.addEvent(common.ShortlistReview, nil)
	winner := store.addBid(event.Id, "1000", common.Shortlisted)
	runnerUp := store.addBid(event.Id, "1200", common.Shortlisted)
	loser := store.addBid(event.Id, "3000", common.Rejected)

	out, err := s.SelectWinner(context.Background(), event.Id.String(), winner.Id.String())
	assert.NoError(t, err)

	check.Equal(t, string(common.WinnerSelected), out.ForgeStatus)
	check.Equal(t, winner.Id.String(), out.WinnerBidId)
	check.Equal(t, common.Accepted, store.findBid(winner.Id).Status)

	// Competing bids keep their history.
	check.Equal(t, common.Shortlisted, store.findBid(runnerUp.Id).Status)
	check.Equal(t, common.Rejected, store.findBid(loser.Id).Status)

	check.Equal(t, []string{winner.Id.String()}, notifier.winners)
}

func TestSelectWinnerAcceptsRoundTwoFinalBid(t *testing.T) {
	store := newFakeStore()
	s := newEventForTest(store, &recordingNotifier{})

	event := store.addEvent(common.ShortlistReview, nil)
	revision := store.addBid(event.Id, "950", common.Submitted)
	revision.BidRound = 2
	revision.IsFinalBid = true

	out, err := s.SelectWinner(context.Background(), event.Id.String(), revision.Id.String())
	assert.NoError(t, err)
	check.Equal(t, revision.Id.String(), out.WinnerBidId)
	check.Equal(t, common.Accepted, store.findBid(revision.Id).Status)
}

func TestSelectWinnerRejectsRevisedOriginal(t *testing.T) {
	store := newFakeStore()
	s := newEventForTest(store, &recordingNotifier{})

	event := store.addEvent(common.ShortlistReview, nil)
	original := store.addBid(event.Id, "1000", common.Revised)

	_, err := s.SelectWinner(context.Background(), event.Id.String(), original.Id.String())
	check.Equal(t, ErrBidNotSelectable, err, cmpopts.EquateErrors())
	check.Equal(t, common.ShortlistReview, store.findEvent(event.Id).ForgeStatus)
}

func TestSelectWinnerRejectsRoundOneSubmitted(t *testing.T) {
	store := newFakeStore()
	s := newEventForTest(store, &recordingNotifier{})

	event := store.addEvent(common.ShortlistReview, nil)
	bid := store.addBid(event.Id, "1000", common.Submitted)

	_, err := s.SelectWinner(context.Background(), event.Id.String(), bid.Id.String())
	check.Equal(t, ErrBidNotSelectable, err, cmpopts.EquateErrors())
}

func TestSelectWinnerWrongPhase(t *testing.T) {
	store := newFakeStore()
	s := newEventForTest(store, &recordingNotifier{})

	event := store.addEvent(common.OpenForBids, nil)
	bid := store.addBid(event.Id, "1000", common.Submitted)

	_, err := s.SelectWinner(context.Background(), event.Id.String(), bid.Id.String())
	check.Equal(t, ErrEventNotAwaitingDecision, err, cmpopts.EquateErrors())
}

func TestSelectWinnerForeignBid(t *testing.T) {
	store := newFakeStore()
	s := newEventForTest(store, &recordingNotifier{})

	event := store.addEvent(common.ShortlistReview, nil)
	other := store.addEvent(common.ShortlistReview, nil)
	bid := store.addBid(other.Id, "1000", common.Shortlisted)

	_, err := s.SelectWinner(context.Background(), event.Id.String(), bid.Id.String())
	check.Equal(t, ErrEventBidMismatch, err, cmpopts.EquateErrors())
}

func TestSelectWinnerUnknownBid(t *testing.T) {
	store := newFakeStore()
	s := newEventForTest(store, &recordingNotifier{})

	event := store.addEvent(common.ShortlistReview, nil)

	_, err := s.SelectWinner(context.Background(), event.Id.String(), "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	check.Equal(t, ErrBidNotFound, err, cmpopts.EquateErrors())
}
