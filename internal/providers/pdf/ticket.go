// Package pdf renders printable coupons for the counter and the kitchen.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/balcaopos/comanda/internal/clock"
	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type Provider interface {
	GenerateTicket(ctx context.Context, ticket *orderdomain.Ticket) (io.Reader, error)
}

type renderer struct {
	node *snowflake.Node
	clk  clock.Clock
}

func NewRenderer(node *snowflake.Node, clk clock.Clock) Provider {
	return &renderer{node: node, clk: clk}
}

func (r *renderer) GenerateTicket(_ context.Context, ticket *orderdomain.Ticket) (io.Reader, error) {
	if ticket == nil {
		return nil, fmt.Errorf("ticket payload is required")
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, "Comanda "+ticket.Code, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, fmt.Sprintf("Doc %s", r.node.Generate()), props.Text{
			Size:  8,
			Align: align.Right,
		}),
	)

	if ticket.Alteration {
		m.AddRow(8,
			text.NewCol(12, "*** ALTERAÇÃO DE PEDIDO ***", props.Text{
				Size:  11,
				Style: fontstyle.Bold,
				Align: align.Center,
			}),
		)
	}

	table := "Balcão"
	if ticket.Table != nil && *ticket.Table != "" {
		table = *ticket.Table
	}
	m.AddRow(22,
		col.New(6).Add(
			text.New("Mesa: "+table, props.Text{Top: 0}),
			text.New("Entrega: "+string(ticket.DeliveryType), props.Text{Top: 5}),
			text.New("Status: "+string(ticket.Status), props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New("Aberta em: "+ticket.CreatedAt.Format("02/01/2006 15:04"), props.Text{Top: 0}),
			text.New("Impresso em: "+r.clk.Now().Format("02/01/2006 15:04"), props.Text{Top: 5}),
			text.New(ticket.Complexity, props.Text{Top: 10, Style: fontstyle.Italic}),
		),
	)

	m.AddRow(8,
		text.NewCol(6, "Item", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qtd", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unitário", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Subtotal", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range ticket.Items {
		m.AddRow(8,
			text.NewCol(6, item.ProductName, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Subtotal.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
		)
		for _, addition := range item.Additions {
			m.AddRow(6,
				text.NewCol(8, fmt.Sprintf("  + %s x%d", addition.Name, addition.Quantity), props.Text{Size: 8}),
				text.NewCol(4, addition.Subtotal.StringFixed(2), props.Text{Size: 8, Align: align.Right}),
			)
		}
		if item.Notes != nil && *item.Notes != "" {
			m.AddRow(6,
				text.NewCol(12, "  Obs: "+*item.Notes, props.Text{Size: 8, Style: fontstyle.Italic}),
			)
		}
	}

	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, ticket.Total.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Pago", props.Text{Size: 9}),
		text.NewCol(2, ticket.Paid.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Saldo", props.Text{Size: 9}),
		text.NewCol(2, ticket.Outstanding.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
	)

	if ticket.Notes != nil && *ticket.Notes != "" {
		m.AddRow(12,
			text.NewCol(12, "Observações: "+*ticket.Notes, props.Text{Size: 8}),
		)
	}

	if len(ticket.KitchenDiff) > 0 {
		m.AddRow(10,
			text.NewCol(12, "Cozinha", props.Text{Size: 11, Style: fontstyle.Bold, Top: 2}),
		)
		for _, line := range ticket.KitchenDiff {
			m.AddRow(6,
				text.NewCol(12, line, props.Text{Size: 9}),
			)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
