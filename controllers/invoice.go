// controllers/invoice.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"invoicegen-backend/models"
	"invoicegen-backend/services"
	"invoicegen-backend/utils"
)

type UpdateStatusInput struct {
	Status models.InvoiceStatus `json:"status" binding:"required,oneof=paid unpaid partial overdue"`
}

type InvoiceController struct {
	invoices *services.InvoiceService
}

func NewInvoiceController(invoices *services.InvoiceService) *InvoiceController {
	return &InvoiceController{invoices: invoices}
}

func (ic *InvoiceController) CreateInvoice(c *gin.Context) {
	var input services.CreateInvoiceInput
	if !bindJSON(c, &input, "Items are required") {
		return
	}

	invoice, err := ic.invoices.Create(c.Request.Context(), utils.CurrentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// GetInvoices lists the caller's invoices, newest first. Optional query
// parameters: status, limit, offset.
func (ic *InvoiceController) GetInvoices(c *gin.Context) {
	opts := models.InvoiceListOpts{Status: models.InvoiceStatus(c.Query("status"))}

	var err error
	if opts.Limit, err = queryInt(c, "limit"); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "limit must be a number")
		return
	}
	if opts.Offset, err = queryInt(c, "offset"); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "offset must be a number")
		return
	}

	invoices, err := ic.invoices.List(c.Request.Context(), utils.CurrentUserID(c), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (ic *InvoiceController) GetInvoice(c *gin.Context) {
	invoice, err := ic.invoices.Get(c.Request.Context(), utils.CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (ic *InvoiceController) UpdateInvoice(c *gin.Context) {
	var input services.UpdateInvoiceInput
	if !bindJSON(c, &input, "") {
		return
	}

	invoice, err := ic.invoices.Update(c.Request.Context(), utils.CurrentUserID(c), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (ic *InvoiceController) UpdateInvoiceStatus(c *gin.Context) {
	var input UpdateStatusInput
	if !bindJSON(c, &input, "Invalid status. Must be one of: "+models.StatusList()) {
		return
	}

	invoice, err := ic.invoices.UpdateStatus(c.Request.Context(), utils.CurrentUserID(c), c.Param("id"), input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (ic *InvoiceController) DeleteInvoice(c *gin.Context) {
	if err := ic.invoices.Delete(c.Request.Context(), utils.CurrentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted"})
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
