package domain

import (
	"context"
	"time"

	paymentdomain "github.com/balcaopos/comanda/internal/payment/domain"
	"github.com/shopspring/decimal"
)

type OpenTabRequest struct {
	Code         string  `json:"codigo" binding:"required"`
	DeliveryType string  `json:"tipo_entrega"`
	Table        *string `json:"mesa"`
	Notes        *string `json:"observacoes"`
}

type AdditionRequest struct {
	AdditionID int64 `json:"adicional_id" binding:"required"`
	Quantity   int   `json:"quantidade"`
}

type ItemRequest struct {
	ProductID int64             `json:"produto_id" binding:"required"`
	Quantity  int               `json:"quantidade"`
	Discount  decimal.Decimal   `json:"desconto"`
	Notes     *string           `json:"observacoes"`
	Additions []AdditionRequest `json:"adicionais"`
}

type DeleteItemRequest struct {
	Force   bool  `json:"forcar"`
	Restock *bool `json:"repor_estoque"`
}

type ChangeStatusRequest struct {
	Status        string  `json:"status" binding:"required"`
	Restock       *bool   `json:"repor_estoque"`
	ConfirmReopen bool    `json:"confirmar_reabertura"`
	Reason        *string `json:"motivo_status"`
}

type ListRequest struct {
	Status       *Status
	DeliveryType *DeliveryType
	Code         string
	Table        string
	DateFrom     *time.Time
	DateTo       *time.Time
	TotalMin     *decimal.Decimal
	TotalMax     *decimal.Decimal
	SortBy       string
	OrderBy      string
	Offset       int
	Limit        int
}

type HistoryRequest struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	Status        *Status
	OnlyFinalized bool
	Limit         int
}

// AdditionDetail is one extra on an item, with the catalog name resolved.
type AdditionDetail struct {
	ID         int64           `json:"id"`
	AdditionID int64           `json:"adicional_id"`
	Name       string          `json:"nome"`
	Quantity   int             `json:"quantidade"`
	UnitPrice  decimal.Decimal `json:"preco_unitario"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type ItemDetail struct {
	ID          int64            `json:"id"`
	OrderID     int64            `json:"pedido_id"`
	ProductID   int64            `json:"produto_id"`
	ProductName string           `json:"produto_nome"`
	Quantity    int              `json:"quantidade"`
	Notes       *string          `json:"observacoes,omitempty"`
	UnitPrice   decimal.Decimal  `json:"preco_unitario"`
	Discount    decimal.Decimal  `json:"desconto"`
	Subtotal    decimal.Decimal  `json:"subtotal"`
	Additions   []AdditionDetail `json:"adicionais"`
}

func (i ItemDetail) clone() ItemDetail {
	out := i
	out.Notes = clonePtr(i.Notes)
	out.Additions = append([]AdditionDetail(nil), i.Additions...)
	return out
}

// Detail is the full order payload handed to the API layer and the cache.
type Detail struct {
	ID           int64                 `json:"id"`
	Code         string                `json:"comanda_codigo"`
	Table        *string               `json:"mesa,omitempty"`
	Status       Status                `json:"status"`
	DeliveryType DeliveryType          `json:"tipo_entrega"`
	Notes        *string               `json:"observacoes,omitempty"`
	Total        decimal.Decimal       `json:"total"`
	TotalItems   int                   `json:"total_itens"`
	Complexity   string                `json:"complexidade"`
	CreatedAt    time.Time             `json:"criado_em"`
	Items        []ItemDetail          `json:"itens"`
	Payment      paymentdomain.Summary `json:"pagamento"`
}

func (d Detail) Clone() Detail {
	out := d
	out.Table = clonePtr(d.Table)
	out.Notes = clonePtr(d.Notes)
	out.Items = make([]ItemDetail, len(d.Items))
	for i := range d.Items {
		out.Items[i] = d.Items[i].clone()
	}
	return out
}

type Summary struct {
	ID           int64           `json:"id"`
	Code         string          `json:"comanda_codigo"`
	Table        *string         `json:"mesa,omitempty"`
	Status       Status          `json:"status"`
	DeliveryType DeliveryType    `json:"tipo_entrega"`
	Total        decimal.Decimal `json:"total"`
	TotalItems   int             `json:"total_itens"`
	Complexity   string          `json:"complexidade"`
	CreatedAt    time.Time       `json:"criado_em"`
}

type Summaries []Summary

func (s Summaries) Clone() Summaries {
	out := make(Summaries, len(s))
	for i := range s {
		out[i] = s[i]
		out[i].Table = clonePtr(s[i].Table)
	}
	return out
}

// PanelRow is one code with its current (or most relevant) order.
type PanelRow struct {
	CodeID       int64           `json:"codigo_id"`
	Code         string          `json:"codigo"`
	Active       bool            `json:"ativo"`
	InUse        bool            `json:"em_uso"`
	Status       string          `json:"status"`
	OrderID      *int64          `json:"pedido_id,omitempty"`
	Table        *string         `json:"mesa,omitempty"`
	DeliveryType *DeliveryType   `json:"tipo_entrega,omitempty"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    *time.Time      `json:"criado_em,omitempty"`
}

type PanelRows []PanelRow

func (p PanelRows) Clone() PanelRows {
	out := make(PanelRows, len(p))
	for i := range p {
		out[i] = p[i]
		out[i].OrderID = clonePtr(p[i].OrderID)
		out[i].Table = clonePtr(p[i].Table)
		out[i].DeliveryType = clonePtr(p[i].DeliveryType)
		out[i].CreatedAt = clonePtr(p[i].CreatedAt)
	}
	return out
}

type HistoryRow struct {
	OrderID      int64           `json:"pedido_id"`
	Code         string          `json:"comanda_codigo"`
	Status       Status          `json:"status"`
	DeliveryType DeliveryType    `json:"tipo_entrega"`
	Table        *string         `json:"mesa,omitempty"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"criado_em"`
}

type HistoryRows []HistoryRow

func (h HistoryRows) Clone() HistoryRows {
	out := make(HistoryRows, len(h))
	for i := range h {
		out[i] = h[i]
		out[i].Table = clonePtr(h[i].Table)
	}
	return out
}

// SuggestionRow ranks a product by how often it was ordered.
type SuggestionRow struct {
	ProductID     int64           `json:"produto_id" gorm:"column:product_id"`
	Name          string          `json:"nome" gorm:"column:name"`
	ImageURL      *string         `json:"imagem_url,omitempty" gorm:"column:image_url"`
	Price         decimal.Decimal `json:"preco" gorm:"column:price"`
	TotalQuantity int             `json:"quantidade_total" gorm:"column:total_quantity"`
}

type SuggestionRows []SuggestionRow

func (s SuggestionRows) Clone() SuggestionRows {
	out := make(SuggestionRows, len(s))
	for i := range s {
		out[i] = s[i]
		out[i].ImageURL = clonePtr(s[i].ImageURL)
	}
	return out
}

type ResetResult struct {
	TabsReset     int `json:"comandas_resetadas"`
	ItemsAffected int `json:"itens_afetados"`
	CodesReleased int `json:"codigos_liberados"`
	StockRestored int `json:"estoque_reposto_total"`
}

type ResetOneResult struct {
	OrderID        int64  `json:"pedido_id"`
	Code           string `json:"comanda_codigo"`
	PreviousStatus Status `json:"status_anterior"`
	Released       bool   `json:"comanda_liberada"`
	StockRestored  int    `json:"estoque_reposto_total"`
}

type DeleteResult struct {
	OrderID         int64  `json:"comanda_id"`
	Code            string `json:"comanda_codigo"`
	ItemsRemoved    int    `json:"itens_removidos"`
	PaymentsRemoved int    `json:"pagamentos_removidos"`
	StockRestored   int    `json:"estoque_reposto_total"`
}

// Ticket is the printable coupon payload. KitchenDiff is only populated for
// kitchen tickets. Alteration marks a re-print issued because the order
// changed; it is a render hint and never touches the snapshot history.
type Ticket struct {
	OrderID      int64           `json:"pedido_id"`
	Code         string          `json:"comanda_codigo"`
	Table        *string         `json:"mesa,omitempty"`
	Status       Status          `json:"status"`
	DeliveryType DeliveryType    `json:"tipo_entrega"`
	Notes        *string         `json:"observacoes,omitempty"`
	TotalItems   int             `json:"total_itens"`
	Complexity   string          `json:"complexidade"`
	Alteration   bool            `json:"alteracao"`
	CreatedAt    time.Time       `json:"criado_em"`
	Total        decimal.Decimal `json:"total"`
	Paid         decimal.Decimal `json:"total_pago"`
	Outstanding  decimal.Decimal `json:"saldo_pendente"`
	Items        []ItemDetail    `json:"itens"`
	KitchenDiff  []string        `json:"diferencas_cozinha"`
}

type Service interface {
	OpenTab(ctx context.Context, req OpenTabRequest) (*Detail, error)
	Get(ctx context.Context, orderID int64) (*Detail, error)
	List(ctx context.Context, req ListRequest) (Summaries, error)
	Panel(ctx context.Context, activeOnly bool) (PanelRows, error)
	History(ctx context.Context, req HistoryRequest) (HistoryRows, error)
	Suggestions(ctx context.Context, limit int) (SuggestionRows, error)

	AddItem(ctx context.Context, orderID int64, req ItemRequest) (*Detail, error)
	UpdateItem(ctx context.Context, orderID, itemID int64, req ItemRequest) (*Detail, error)
	DeleteItem(ctx context.Context, orderID, itemID int64, req DeleteItemRequest) (*Detail, error)
	MoveItem(ctx context.Context, orderID, itemID, destOrderID int64) (*Detail, error)

	ChangeStatus(ctx context.Context, orderID int64, req ChangeStatusRequest) (*Detail, error)
	Delete(ctx context.Context, orderID int64) (*DeleteResult, error)
	ResetAll(ctx context.Context) (*ResetResult, error)
	ResetOne(ctx context.Context, orderID int64) (*ResetOneResult, error)

	Ticket(ctx context.Context, orderID int64, kitchen, alteration bool) (*Ticket, error)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
