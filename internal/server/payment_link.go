package server

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	paymentlinkdomain "github.com/M-Haris-27/ZoroPay/internal/paymentlink/domain"
	"github.com/gin-gonic/gin"
)

type createPaymentLinkRequest struct {
	UserID    string  `json:"userId"`
	InvoiceID string  `json:"invoiceId"`
	Amount    float64 `json:"amount"`
}

func (s *Server) CreatePaymentLink(c *gin.Context) {
	var req createPaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	if invoiceID := strings.TrimSpace(req.InvoiceID); invoiceID != "" && s.paymentLinkLimiter.Enabled() {
		res := s.paymentLinkLimiter.AllowInvoice(ctx, invoiceID)
		if !res.Allowed {
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			AbortWithError(c, ErrRateLimited)
			return
		}
	}

	link, err := s.paymentLinkSvc.CreatePaymentLink(ctx, paymentlinkdomain.CreatePaymentLinkRequest{
		UserID:    req.UserID,
		InvoiceID: req.InvoiceID,
		Amount:    req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "Payment Link Created Successfully",
		"paymentLink": link,
	})
}
