package api

import (
	"errors"
	"net/http"

	"dresses/storefront/internal/catalog"
	"dresses/storefront/internal/checkout"
	"dresses/storefront/internal/domain"
	"dresses/storefront/internal/service"
	"dresses/storefront/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type valueRequest struct {
	Value string `json:"value"`
}

type priceRequest struct {
	Value *decimal.Decimal `json:"value"`
}

type filtersResponse struct {
	Color      []string           `json:"color"`
	Size       []string           `json:"size"`
	Type       []string           `json:"type"`
	PriceRange catalog.PriceRange `json:"price_range"`
}

func (s *Server) getFilters(c *gin.Context) {
	c.JSON(http.StatusOK, filtersResponse{
		Color:      domain.FilterColor.Options(),
		Size:       domain.FilterSize.Options(),
		Type:       domain.FilterType.Options(),
		PriceRange: s.bounds,
	})
}

func (s *Server) createSession(c *gin.Context) {
	id := s.service.CreateSession()
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) getCheckout(c *gin.Context) {
	state, err := s.service.Checkout(c.Param("id"))
	s.respondCheckout(c, state, err)
}

func (s *Server) setField(c *gin.Context) {
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	state, err := s.service.SetField(c.Param("id"), domain.Field(c.Param("field")), req.Value)
	s.respondCheckout(c, state, err)
}

func (s *Server) advance(c *gin.Context) {
	state, err := s.service.Advance(c.Param("id"))
	s.respondCheckout(c, state, err)
}

func (s *Server) retreat(c *gin.Context) {
	state, err := s.service.Retreat(c.Param("id"))
	s.respondCheckout(c, state, err)
}

func (s *Server) submit(c *gin.Context) {
	state, err := s.service.Submit(c.Param("id"))
	s.respondCheckout(c, state, err)
}

func (s *Server) getCatalog(c *gin.Context) {
	snap, err := s.service.Catalog(c.Param("id"))
	respondCatalog(c, snap, err)
}

func (s *Server) setTextFilter(c *gin.Context) {
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	snap, err := s.service.SetTextFilter(c.Param("id"), req.Value)
	respondCatalog(c, snap, err)
}

func (s *Server) toggleFilter(c *gin.Context) {
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	dimension := domain.FilterDimension(c.Param("dimension"))
	snap, err := s.service.ToggleFilter(c.Param("id"), dimension, req.Value)
	respondCatalog(c, snap, err)
}

func (s *Server) setPriceBound(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if req.Value == nil {
		badRequest(c, "Price value is required", nil)
		return
	}

	snap, err := s.service.SetPriceBound(c.Param("id"), catalog.PriceBound(c.Param("bound")), *req.Value)
	respondCatalog(c, snap, err)
}

func (s *Server) setSort(c *gin.Context) {
	snap, err := s.service.SetSort(c.Param("id"), catalog.SortKey(c.Param("key")))
	respondCatalog(c, snap, err)
}

func (s *Server) toggleSortDirection(c *gin.Context) {
	snap, err := s.service.ToggleSortDirection(c.Param("id"))
	respondCatalog(c, snap, err)
}

func (s *Server) reload(c *gin.Context) {
	snap, err := s.service.Reload(c.Param("id"))
	respondCatalog(c, snap, err)
}

func (s *Server) respondCheckout(c *gin.Context, state domain.StepState, err error) {
	if err == nil {
		c.JSON(http.StatusOK, state)
		return
	}

	var verrs checkout.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "VALIDATION_FAILED",
			Message: "Some fields need attention",
			Details: state,
		})
		return
	}

	respondError(c, err)
}

func respondCatalog(c *gin.Context, snap catalog.Snapshot, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "NOT_FOUND", Message: "Session not found"})
	case errors.Is(err, service.ErrCheckoutIncomplete),
		errors.Is(err, checkout.ErrSubmitted),
		errors.Is(err, checkout.ErrNoNextStep),
		errors.Is(err, checkout.ErrNoPreviousStep),
		errors.Is(err, checkout.ErrNotFinalStep),
		errors.Is(err, catalog.ErrLoadInProgress):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "INVALID_STATE", Message: err.Error()})
	case errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, catalog.ErrUnknownFilter),
		errors.Is(err, catalog.ErrUnknownBound),
		errors.Is(err, catalog.ErrUnknownSortKey),
		errors.Is(err, catalog.ErrPriceOutOfRange):
		badRequest(c, err.Error(), nil)
	default:
		log.Errorf("❌ Unhandled request error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "INTERNAL", Message: "Internal server error"})
	}
}

func badRequest(c *gin.Context, message string, err error) {
	resp := ErrorResponse{Error: "INVALID_INPUT", Message: message}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}
