package controller

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"

	"eventfoundry-api/internal/entity"
	"eventfoundry-api/internal/service"
)

type eventRoutesHandler struct {
	eventService        service.Event
	bidService          service.Bid
	shortlistingService service.Shortlisting
	pricingService      service.Pricing
	biddingService      service.Bidding
	validate            *validator.Validate
}

func newEventRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *eventRoutesHandler {
	h := &eventRoutesHandler{
		eventService:        services.Event,
		bidService:          services.Bid,
		shortlistingService: services.Shortlisting,
		pricingService:      services.Pricing,
		biddingService:      services.Bidding,
		validate:            v,
	}

	outer.POST("/events/new", h.PostEvent)
	outer.POST("/events/check-expired", h.CheckExpiredWindows)
	outer.GET("/events/:eventId", h.GetEvent)

	outer.POST("/events/:eventId/close-bidding", h.CloseBidding)
	outer.POST("/events/:eventId/select-winner", h.SelectWinner)
	outer.POST("/events/:eventId/recompute-pricing", h.RecomputePricing)

	outer.GET("/events/:eventId/shortlisted-bids", h.GetShortlistedBids)
	outer.GET("/events/:eventId/bid-stats", h.GetBidStats)
	outer.GET("/events/:eventId/final-bidding", h.GetFinalBiddingStatus)
	outer.GET("/events/:eventId/bids", h.GetEventBids)

	return h
}

type postEventInput struct {
	Title           string `json:"title" validate:"required,max=200"`
	EventType       string `json:"eventType" validate:"required,max=100"`
	OwnerUserId     string `json:"ownerUserId" validate:"required,max=100"`
	BiddingClosesAt string `json:"biddingClosesAt" validate:"omitempty"`
}

// /events/new
func (h *eventRoutesHandler) PostEvent(c echo.Context) error {
	var input postEventInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	model := &entity.CreateEventInput{
		Title:       input.Title,
		EventType:   input.EventType,
		OwnerUserId: input.OwnerUserId,
	}

	if input.BiddingClosesAt != "" {
		closesAt, err := time.Parse(time.RFC3339, input.BiddingClosesAt)
		if err != nil {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"biddingClosesAt must be an RFC3339 timestamp"}); e != nil {
				return e
			}

			return err
		}
		model.BiddingClosesAt = &closesAt
	}

	event, err := h.eventService.CreateEvent(c.Request().Context(), model)
	if err == nil {
		if e := c.JSON(http.StatusOK, event); e != nil {
			return e
		}

		return nil
	}

	if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
		return e
	}

	return err
}

// /events/:eventId
func (h *eventRoutesHandler) GetEvent(c echo.Context) error {
	event, err := h.eventService.GetEventById(c.Request().Context(), c.Param("eventId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, event); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrEventNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no event with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /events/:eventId/close-bidding
func (h *eventRoutesHandler) CloseBidding(c echo.Context) error {
	result, err := h.biddingService.CloseBiddingWindow(c.Request().Context(), c.Param("eventId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, result); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrEventNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no event with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /events/check-expired
func (h *eventRoutesHandler) CheckExpiredWindows(c echo.Context) error {
	sweep, err := h.biddingService.CheckExpiredBiddingWindows(c.Request().Context())
	if err == nil {
		if e := c.JSON(http.StatusOK, sweep); e != nil {
			return e
		}

		return nil
	}

	if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
		return e
	}

	return err
}

type selectWinnerInput struct {
	BidId string `json:"bidId" validate:"required,max=100"`
}

// /events/:eventId/select-winner
func (h *eventRoutesHandler) SelectWinner(c echo.Context) error {
	var input selectWinnerInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	event, err := h.eventService.SelectWinner(c.Request().Context(), c.Param("eventId"), input.BidId)
	if err == nil {
		if e := c.JSON(http.StatusOK, event); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrEventNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no event with given id"}); e != nil {
			return e
		}
	case service.ErrBidNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no bid with given id"}); e != nil {
			return e
		}
	case service.ErrEventBidMismatch:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Bid does not belong to the event"}); e != nil {
			return e
		}
	case service.ErrEventNotAwaitingDecision:
		if e := c.JSON(http.StatusConflict, errorResponse{"Event is not in the shortlist review phase"}); e != nil {
			return e
		}
	case service.ErrBidNotSelectable:
		if e := c.JSON(http.StatusConflict, errorResponse{"Bid can't be selected as the winner"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /events/:eventId/recompute-pricing
func (h *eventRoutesHandler) RecomputePricing(c echo.Context) error {
	analyzed, err := h.pricingService.CalculateCompetitivePricing(c.Request().Context(), c.Param("eventId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, map[string]int{"bidsAnalyzed": analyzed}); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrEventNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no event with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /events/:eventId/shortlisted-bids
func (h *eventRoutesHandler) GetShortlistedBids(c echo.Context) error {
	bids, err := h.shortlistingService.GetShortlistedBids(c.Request().Context(), c.Param("eventId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, bids); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrEventNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no event with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /events/:eventId/bid-stats
func (h *eventRoutesHandler) GetBidStats(c echo.Context) error {
	stats, err := h.shortlistingService.CalculateShortlistingStats(c.Request().Context(), c.Param("eventId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, stats); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrEventNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no event with given id"}); e != nil {
			return e
		}
	case service.ErrNoSubmittedBids:
		if e := c.JSON(http.StatusNotFound, errorResponse{"Event has no submitted bids"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /events/:eventId/final-bidding
func (h *eventRoutesHandler) GetFinalBiddingStatus(c echo.Context) error {
	open, err := h.shortlistingService.IsFinalBiddingOpen(c.Request().Context(), c.Param("eventId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, map[string]bool{"open": open}); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrEventNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no event with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type getEventBidsInput struct {
	EventId string `param:"eventId" validate:"required,max=100"`
	Round   int    `query:"round" validate:"gte=1,lte=2"`
	Limit   int32  `query:"limit" validate:"gte=0,lte=100"`
	Offset  int32  `query:"offset" validate:"gte=0"`
}

func newGetEventBidsInput() getEventBidsInput {
	return getEventBidsInput{Round: defaultRound, Limit: defaultLimit, Offset: defaultOffset}
}

// /events/:eventId/bids
func (h *eventRoutesHandler) GetEventBids(c echo.Context) error {
	var input = newGetEventBidsInput()
	if err := c.Bind(&input); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "Request body can't be empty") {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
				return e
			}

			return err
		}
	}

	input.EventId = c.Param("eventId")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	bids, err := h.bidService.GetEventBidsByRound(c.Request().Context(), input.EventId, input.Round, pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, bids); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrEventNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no event with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}
