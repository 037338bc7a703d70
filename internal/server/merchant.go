package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	merchantdomain "github.com/nearme-labs/nearme/internal/merchant/domain"
)

func (s *Server) createMerchant(c *gin.Context) {
	var req merchantdomain.CreateMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	created, err := s.merchantSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (s *Server) getMerchant(c *gin.Context) {
	merchant, err := s.merchantSvc.GetByID(c.Request.Context(), merchantdomain.GetMerchantRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, merchant)
}

func (s *Server) listOwnedMerchants(c *gin.Context) {
	merchants, err := s.merchantSvc.ListOwned(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"merchants": merchants})
}
