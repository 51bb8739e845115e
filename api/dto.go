/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Structural validation (required fields, positive amounts) is done by
  the Registry; DTOs are pure data carriers. Handlers only translate.
*/
package api

import (
	"time"

	"github.com/smartstock/ledger-engine/ledger"
	"github.com/smartstock/ledger-engine/reports"
)

// =============================================================================
// PARTY TYPES
// =============================================================================

// PartyDTO represents a client or supplier in API responses.
type PartyDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Phone   string `json:"phone"`
	Address string `json:"address"`

	Transactions []TransactionDTO `json:"transactions"`
	Payments     []PaymentDTO     `json:"payments"`
	Notes        []NoteDTO        `json:"notes"`

	Balance    float64 `json:"balance"`
	Settlement string  `json:"settlement"`
	CreatedAt  string  `json:"created_at"`
}

type TransactionDTO struct {
	ID      string        `json:"id"`
	Kind    string        `json:"kind"`
	Amount  float64       `json:"amount"`
	Date    string        `json:"date"`
	Details []LineItemDTO `json:"details,omitempty"`
}

type LineItemDTO struct {
	ProductName string  `json:"productName"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
	TotalAmount float64 `json:"totalAmount"`
}

type PaymentDTO struct {
	ID     string  `json:"id"`
	Amount float64 `json:"paymentAmount"`
	Date   string  `json:"date"`
}

type NoteDTO struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Date string `json:"date"`
}

// RegisterPartyRequest creates a party, optionally with a first transaction.
type RegisterPartyRequest struct {
	Name               string              `json:"name"`
	Kind               string              `json:"kind"`
	Phone              string              `json:"phone"`
	Address            string              `json:"address"`
	InitialTransaction *TransactionRequest `json:"initialTransaction,omitempty"`
}

// UpdatePartyRequest is a partial update; absent fields are untouched.
type UpdatePartyRequest struct {
	Name    *string `json:"name,omitempty"`
	Kind    *string `json:"kind,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// TransactionRequest records a sale/purchase. The kind field is advisory:
// the party's kind decides, mirroring the dashboard's auto-correction.
type TransactionRequest struct {
	Kind    string            `json:"kind,omitempty"`
	Amount  float64           `json:"amount"`
	Date    string            `json:"date,omitempty"` // RFC 3339 or YYYY-MM-DD
	Details []LineItemRequest `json:"details,omitempty"`
}

type LineItemRequest struct {
	ProductName string  `json:"productName"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
}

type PaymentRequest struct {
	Amount float64 `json:"amount"`
}

type NoteRequest struct {
	Text string `json:"text"`
}

// =============================================================================
// AUTH TYPES
// =============================================================================

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// =============================================================================
// REPORT TYPES
// =============================================================================

type ReportSummaryDTO struct {
	ClientBalance   float64 `json:"client_balance"`
	SupplierBalance float64 `json:"supplier_balance"`
	Clients         int     `json:"clients"`
	Suppliers       int     `json:"suppliers"`
}

type MonthlyTotalDTO struct {
	Month     int     `json:"month"`
	Sales     float64 `json:"sales"`
	Purchases float64 `json:"purchases"`
}

type ProductTotalDTO struct {
	ProductName  string  `json:"productName"`
	Quantity     int64   `json:"quantity"`
	Revenue      float64 `json:"revenue"`
	RevenueShare float64 `json:"revenue_share"`
}

// RevenueShareDTO carries one product's cut of total sale revenue.
type RevenueShareDTO struct {
	ProductName  string  `json:"productName"`
	RevenueShare float64 `json:"revenue_share"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toPartyDTO(p *ledger.Party) PartyDTO {
	dto := PartyDTO{
		ID:         string(p.ID),
		Name:       p.Name,
		Kind:       string(p.Kind),
		Phone:      p.Phone,
		Address:    p.Address,
		Balance:    p.Balance.Float64(),
		Settlement: string(ledger.SettlementOf(p.Balance)),
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),

		Transactions: make([]TransactionDTO, 0, len(p.Transactions)),
		Payments:     make([]PaymentDTO, 0, len(p.Payments)),
		Notes:        make([]NoteDTO, 0, len(p.Notes)),
	}

	for _, tx := range p.Transactions {
		txDTO := TransactionDTO{
			ID:     string(tx.ID),
			Kind:   string(tx.Kind),
			Amount: tx.Amount.Float64(),
			Date:   tx.Date.Format(time.RFC3339),
		}
		for _, li := range tx.Details {
			txDTO.Details = append(txDTO.Details, LineItemDTO{
				ProductName: li.ProductName,
				Quantity:    li.Quantity,
				Price:       li.Price.Float64(),
				TotalAmount: li.TotalAmount.Float64(),
			})
		}
		dto.Transactions = append(dto.Transactions, txDTO)
	}
	for _, pay := range p.Payments {
		dto.Payments = append(dto.Payments, PaymentDTO{
			ID:     string(pay.ID),
			Amount: pay.Amount.Float64(),
			Date:   pay.Date.Format(time.RFC3339),
		})
	}
	for _, n := range p.Notes {
		dto.Notes = append(dto.Notes, NoteDTO{
			ID:   string(n.ID),
			Text: n.Text,
			Date: n.Date.Format(time.RFC3339),
		})
	}
	return dto
}

func toSummaryDTO(s reports.Summary) ReportSummaryDTO {
	return ReportSummaryDTO{
		ClientBalance:   s.ClientBalance.Float64(),
		SupplierBalance: s.SupplierBalance.Float64(),
		Clients:         s.Clients,
		Suppliers:       s.Suppliers,
	}
}
