package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

// UploadsPrefix is the public path uploaded receipts are served under.
const UploadsPrefix = "/uploads/"

// TransactionHandler serves /api/transactions.
type TransactionHandler struct {
	service ports.TransactionService
	files   ports.FileStore
}

func NewTransactionHandler(service ports.TransactionService, files ports.FileStore) *TransactionHandler {
	return &TransactionHandler{service: service, files: files}
}

type transactionRequest struct {
	Date       *flexTime   `json:"date"`
	Amount     *flexFloat  `json:"amount"`
	Currency   *string     `json:"currency"`
	Type       *string     `json:"type"`
	CategoryID *string     `json:"category_id"`
	Account    *string     `json:"account"`
	Tags       *flexTags   `json:"tags"`
	Vendor     *string     `json:"vendor"`
	Client     *string     `json:"client"`
	ProjectID  *string     `json:"project_id"`
	InvoiceID  *string     `json:"invoice_id"`
	ReceiptURL *string     `json:"receipt_url"`
	Reconciled *flexBool   `json:"reconciled"`
	Notes      *string     `json:"notes"`
	Splits     *flexSplits `json:"splits"`
}

func (r transactionRequest) input() ports.TransactionInput {
	return ports.TransactionInput{
		Date:       r.Date.value(),
		Amount:     r.Amount.value(),
		Currency:   text(r.Currency),
		Type:       text(r.Type),
		CategoryID: text(r.CategoryID),
		Account:    text(r.Account),
		Tags:       r.Tags.value(),
		Vendor:     text(r.Vendor),
		Client:     text(r.Client),
		ProjectID:  text(r.ProjectID),
		InvoiceID:  text(r.InvoiceID),
		ReceiptURL: text(r.ReceiptURL),
		Reconciled: r.Reconciled.value(),
		Notes:      r.Notes,
		Splits:     r.Splits.value(),
	}
}

type paramUnmarshaler interface {
	UnmarshalParam(string) error
}

// formField parses one multipart value. An absent key yields nil.
func formField[T any, P interface {
	*T
	paramUnmarshaler
}](values map[string][]string, key string) (*T, error) {
	raw, ok := values[key]
	if !ok || len(raw) == 0 {
		return nil, nil
	}
	var v T
	if err := P(&v).UnmarshalParam(raw[0]); err != nil {
		return nil, err
	}
	return &v, nil
}

func formText(values map[string][]string, key string) *string {
	raw, ok := values[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	s := raw[0]
	return &s
}

func transactionFromForm(values map[string][]string) (transactionRequest, error) {
	req := transactionRequest{
		Currency:   formText(values, "currency"),
		Type:       formText(values, "type"),
		CategoryID: formText(values, "category_id"),
		Account:    formText(values, "account"),
		Vendor:     formText(values, "vendor"),
		Client:     formText(values, "client"),
		ProjectID:  formText(values, "project_id"),
		InvoiceID:  formText(values, "invoice_id"),
		ReceiptURL: formText(values, "receipt_url"),
		Notes:      formText(values, "notes"),
	}
	var err error
	if req.Date, err = formField[flexTime](values, "date"); err != nil {
		return req, err
	}
	if req.Amount, err = formField[flexFloat](values, "amount"); err != nil {
		return req, err
	}
	if req.Tags, err = formField[flexTags](values, "tags"); err != nil {
		return req, err
	}
	if req.Reconciled, err = formField[flexBool](values, "reconciled"); err != nil {
		return req, err
	}
	if req.Splits, err = formField[flexSplits](values, "splits"); err != nil {
		return req, err
	}
	return req, nil
}

// readInput decodes a JSON or multipart body. A multipart "receipt" file is
// stored and referenced from the transaction.
func (h *TransactionHandler) readInput(c echo.Context) (ports.TransactionInput, error) {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		var req transactionRequest
		if err := bind(c, &req); err != nil {
			return ports.TransactionInput{}, err
		}
		return req.input(), nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return ports.TransactionInput{}, fmt.Errorf("%w: invalid multipart body", domain.ErrValidation)
	}
	req, err := transactionFromForm(form.Value)
	if err != nil {
		return ports.TransactionInput{}, err
	}
	in := req.input()

	url, err := h.saveReceipt(c)
	if err != nil {
		return ports.TransactionInput{}, err
	}
	if url != "" {
		in.ReceiptURL = &url
	}
	return in, nil
}

func (h *TransactionHandler) saveReceipt(c echo.Context) (string, error) {
	fh, err := c.FormFile("receipt")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: unreadable receipt", domain.ErrValidation)
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	name, err := h.files.Save(fh.Filename, f)
	if err != nil {
		return "", err
	}
	return UploadsPrefix + name, nil
}

// listFilter reads the optional query filters. Unparseable dates are ignored.
func listFilter(c echo.Context) ports.TransactionFilter {
	f := ports.TransactionFilter{
		Type:    domain.TransactionType(c.QueryParam("type")),
		Account: c.QueryParam("account"),
		Tag:     c.QueryParam("tag"),
		Query:   strings.TrimSpace(c.QueryParam("q")),
	}
	if ids := c.QueryParam("category_id"); ids != "" {
		f.CategoryIDs = cleanTags(strings.Split(ids, ","))
	}
	switch c.QueryParam("reconciled") {
	case "true":
		f.Reconciled = ptrBool(true)
	case "false":
		f.Reconciled = ptrBool(false)
	}
	if from, err := parseTime(c.QueryParam("from")); err == nil {
		f.From = from
	}
	if to, err := parseTime(c.QueryParam("to")); err == nil {
		f.To = to
	}
	return f
}

func ptrBool(b bool) *bool { return &b }

// List handles GET /api/transactions.
//
// @Summary      List transactions
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        type         query     string  false  "income or expense"
// @Param        account      query     string  false  "Account name"
// @Param        category_id  query     string  false  "Comma-separated category ids"
// @Param        tag          query     string  false  "Tag"
// @Param        reconciled   query     string  false  "true or false"
// @Param        from         query     string  false  "Earliest date"
// @Param        to           query     string  false  "Latest date"
// @Param        q            query     string  false  "Free-text search"
// @Success      200          {array}   domain.Transaction
// @Failure      401          {object}  map[string]string
// @Failure      403          {object}  map[string]string
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	items, err := h.service.List(c.Request().Context(), id, listFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /api/transactions.
//
// @Summary      Create a transaction
// @Tags         transactions
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      transactionRequest  true  "Transaction"
// @Success      201   {object}  domain.Transaction
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	in, err := h.readInput(c)
	if err != nil {
		return err
	}
	t, err := h.service.Create(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

// Update handles PUT /api/transactions/:id.
//
// @Summary      Update a transaction
// @Tags         transactions
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Transaction id"
// @Param        body  body      transactionRequest  true  "Fields to change"
// @Success      200   {object}  domain.Transaction
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/transactions/{id} [put]
func (h *TransactionHandler) Update(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	in, err := h.readInput(c)
	if err != nil {
		return err
	}
	t, err := h.service.Update(c.Request().Context(), id, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /api/transactions/:id and returns the removed record.
//
// @Summary      Delete a transaction
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Transaction id"
// @Success      200  {object}  domain.Transaction
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	t, err := h.service.Delete(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

// ExportCSV handles GET /api/transactions/export.csv.
//
// @Summary      Download transactions as CSV
// @Tags         transactions
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      403  {object}  map[string]string
// @Router       /api/transactions/export.csv [get]
func (h *TransactionHandler) ExportCSV(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := h.service.ExportCSV(c.Request().Context(), id, &buf); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="transactions.csv"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

type importResponse struct {
	Imported int `json:"imported"`
}

// ImportCSV handles POST /api/transactions/import.csv.
//
// @Summary      Import transactions from CSV
// @Tags         transactions
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "CSV file"
// @Success      200   {object}  importResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/transactions/import.csv [post]
func (h *TransactionHandler) ImportCSV(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: CSV file required", domain.ErrValidation)
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := h.service.ImportCSV(c.Request().Context(), id, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, importResponse{Imported: n})
}
