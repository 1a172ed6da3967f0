package controller

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/shopspring/decimal"

	"eventfoundry-api/internal/common"
	"eventfoundry-api/internal/entity"
	"eventfoundry-api/internal/service"
)

type bidRoutesHandler struct {
	bidService          service.Bid
	shortlistingService service.Shortlisting
	pricingService      service.Pricing
	validate            *validator.Validate
}

func newBidRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *bidRoutesHandler {
	h := &bidRoutesHandler{
		bidService:          services.Bid,
		shortlistingService: services.Shortlisting,
		pricingService:      services.Pricing,
		validate:            v,
	}

	outer.POST("/bids/new", h.PostBid)
	outer.GET("/bids/:bidId", h.GetBid)
	outer.POST("/bids/:bidId/revise", h.ReviseBid)
	outer.PATCH("/bids/:bidId/status", h.UpdateBidStatus)
	outer.GET("/bids/:bidId/intelligence", h.GetIntelligence)

	return h
}

type bidMoneyInput struct {
	Subtotal  string `json:"subtotal" validate:"required,max=30"`
	Taxes     string `json:"taxes" validate:"required,max=30"`
	TotalCost string `json:"totalCost" validate:"required,max=30"`
}

func (m *bidMoneyInput) parse() (subtotal, taxes, total decimal.Decimal, err error) {
	if subtotal, err = decimal.NewFromString(m.Subtotal); err != nil {
		return
	}
	if taxes, err = decimal.NewFromString(m.Taxes); err != nil {
		return
	}
	total, err = decimal.NewFromString(m.TotalCost)

	return
}

type postBidInput struct {
	EventId            string          `json:"eventId" validate:"required,max=100"`
	VendorId           string          `json:"vendorId" validate:"required,max=100"`
	CraftSpecialties   []string        `json:"craftSpecialties" validate:"max=20"`
	ForgeItems         json.RawMessage `json:"forgeItems" validate:"required"`
	CraftAttachments   []string        `json:"craftAttachments" validate:"max=20"`
	VendorNotes        string          `json:"vendorNotes" validate:"max=1000"`
	EstimatedForgeTime string          `json:"estimatedForgeTime" validate:"max=100"`
	bidMoneyInput
}

// /bids/new
func (h *bidRoutesHandler) PostBid(c echo.Context) error {
	var input postBidInput
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

	subtotal, taxes, total, err := input.parse()
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Money fields must be decimal numbers"}); e != nil {
			return e
		}

		return err
	}

	model := &entity.CreateBidInput{
		EventId:            input.EventId,
		VendorId:           input.VendorId,
		CraftSpecialties:   input.CraftSpecialties,
		ForgeItems:         input.ForgeItems,
		Subtotal:           subtotal,
		Taxes:              taxes,
		TotalCost:          total,
		CraftAttachments:   input.CraftAttachments,
		VendorNotes:        input.VendorNotes,
		EstimatedForgeTime: input.EstimatedForgeTime,
	}

	bid, err := h.bidService.CreateBid(c.Request().Context(), model)
	if err == nil {
		if e := c.JSON(http.StatusOK, bid); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrEventNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no event with given id"}); e != nil {
			return e
		}
	case service.ErrEventNotAccepting:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Event is not accepting bids"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /bids/:bidId
func (h *bidRoutesHandler) GetBid(c echo.Context) error {
	bid, err := h.bidService.GetBidById(c.Request().Context(), c.Param("bidId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, bid); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrBidNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no bid with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type reviseBidInput struct {
	ForgeItems  json.RawMessage `json:"forgeItems" validate:"required"`
	VendorNotes string          `json:"vendorNotes" validate:"max=1000"`
	bidMoneyInput
}

// /bids/:bidId/revise
func (h *bidRoutesHandler) ReviseBid(c echo.Context) error {
	var input reviseBidInput
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

	subtotal, taxes, total, err := input.parse()
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Money fields must be decimal numbers"}); e != nil {
			return e
		}

		return err
	}

	model := &entity.ReviseBidInput{
		ForgeItems:  input.ForgeItems,
		Subtotal:    subtotal,
		Taxes:       taxes,
		TotalCost:   total,
		VendorNotes: input.VendorNotes,
	}

	bid, err := h.shortlistingService.CreateRevisedBid(c.Request().Context(), c.Param("bidId"), model)
	if err == nil {
		if e := c.JSON(http.StatusOK, bid); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrBidNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no bid with given id"}); e != nil {
			return e
		}
	case service.ErrEventNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no more event for bid"}); e != nil {
			return e
		}
	case service.ErrBidNotShortlisted:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only shortlisted bids can be revised"}); e != nil {
			return e
		}
	case service.ErrBidAlreadyRevised:
		if e := c.JSON(http.StatusConflict, errorResponse{"Bid has already been revised"}); e != nil {
			return e
		}
	case service.ErrFinalBiddingClosed:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Final bidding window is closed"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type updateBidStatusInput struct {
	BidId  string `param:"bidId" validate:"required,max=100"`
	Status string `query:"status" validate:"required,oneof=DRAFT SUBMITTED SHORTLISTED REVISED ACCEPTED REJECTED WITHDRAWN"`
}

// /bids/:bidId/status
func (h *bidRoutesHandler) UpdateBidStatus(c echo.Context) error {
	var input updateBidStatusInput
	if err := c.Bind(&input); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "Request body can't be empty") {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
				return e
			}

			return err
		}
	}

	input.BidId, input.Status = c.Param("bidId"), c.QueryParam("status")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	newStatus, err := common.ParseBidStatus(input.Status)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Unknown bid status"}); e != nil {
			return e
		}

		return err
	}

	bid, err := h.bidService.UpdateBidStatusById(c.Request().Context(), input.BidId, newStatus)
	if err == nil {
		if e := c.JSON(http.StatusOK, bid); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrBidNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no bid with given id"}); e != nil {
			return e
		}
	case service.ErrIllegalStatusTransition:
		if e := c.JSON(http.StatusConflict, errorResponse{"Status transition is not allowed"}); e != nil {
			return e
		}
	case service.ErrShortlistLimitReached:
		if e := c.JSON(http.StatusConflict, errorResponse{"Shortlist is already full"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /bids/:bidId/intelligence
func (h *bidRoutesHandler) GetIntelligence(c echo.Context) error {
	intelligence, err := h.pricingService.GetCompetitiveIntelligence(c.Request().Context(), c.Param("bidId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, intelligence); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrBidNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no bid with given id"}); e != nil {
			return e
		}
	case service.ErrNoIntelligence:
		if e := c.JSON(http.StatusNotFound, errorResponse{"No competitive intelligence available for the bid"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}
