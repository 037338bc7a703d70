package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	prdomain "github.com/nearme-labs/nearme/internal/paymentrequest/domain"
)

func (s *Server) createPaymentRequest(c *gin.Context) {
	var req prdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.paymentRequestSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"request_id": resp.RequestID,
		"expires_at": resp.ExpiresAt.UnixMilli(),
	})
}

func (s *Server) fulfillPaymentRequest(c *gin.Context) {
	var req prdomain.FulfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.RequestID = c.Param("id")

	resp, err := s.paymentRequestSvc.Fulfill(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) getPaymentRequest(c *gin.Context) {
	request, err := s.paymentRequestSvc.GetByID(c.Request.Context(), prdomain.GetRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (s *Server) listMerchantPaymentRequests(c *gin.Context) {
	requests, err := s.paymentRequestSvc.ListByMerchant(c.Request.Context(), prdomain.ListByMerchantRequest{
		MerchantID: c.Param("id"),
		Status:     c.Query("status"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment_requests": requests})
}
