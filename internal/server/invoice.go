package server

import (
	"net/http"
	"time"

	invoicedomain "github.com/M-Haris-27/ZoroPay/internal/invoice/domain"
	"github.com/gin-gonic/gin"
)

type invoiceItemRequest struct {
	ID           string   `json:"_id"`
	ServiceID    string   `json:"serviceId"`
	ServiceName  string   `json:"serviceName"`
	ServicePrice *float64 `json:"servicePrice"`
}

type createInvoiceRequest struct {
	UserID       string               `json:"userId"`
	TotalAmount  float64              `json:"totalAmount"`
	InvoiceItems []invoiceItemRequest `json:"invoiceItems"`
}

type updateInvoiceRequest struct {
	User         *string               `json:"user"`
	InvoiceItems *[]invoiceItemRequest `json:"invoiceItems"`
	Total        *float64              `json:"total"`
	Status       *string               `json:"status"`
	PaymentDate  *time.Time            `json:"paymentDate"`
	PaymentLink  *string               `json:"paymentLink"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items := make([]invoicedomain.CreateInvoiceItemRequest, 0, len(req.InvoiceItems))
	for _, item := range req.InvoiceItems {
		items = append(items, invoicedomain.CreateInvoiceItemRequest{
			ServiceName:  item.ServiceName,
			ServicePrice: item.ServicePrice,
		})
	}

	invoice, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		UserID:       req.UserID,
		TotalAmount:  req.TotalAmount,
		InvoiceItems: items,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Invoice created successfully",
		"data":    invoice,
	})
}

func (s *Server) ListInvoices(c *gin.Context) {
	invoices, err := s.invoiceSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": invoices})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	invoice, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": invoice})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := invoicedomain.UpdateInvoiceRequest{
		ID:          c.Param("id"),
		UserID:      req.User,
		Total:       req.Total,
		Status:      req.Status,
		PaymentDate: req.PaymentDate,
		PaymentLink: req.PaymentLink,
	}
	if req.InvoiceItems != nil {
		items := make([]invoicedomain.InvoiceItemRequest, 0, len(*req.InvoiceItems))
		for _, item := range *req.InvoiceItems {
			items = append(items, invoicedomain.InvoiceItemRequest{
				ID:           item.ID,
				ServiceID:    item.ServiceID,
				ServiceName:  item.ServiceName,
				ServicePrice: item.ServicePrice,
			})
		}
		update.InvoiceItems = &items
	}

	invoice, err := s.invoiceSvc.Update(c.Request.Context(), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": invoice})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Invoice deleted successfully"})
}
