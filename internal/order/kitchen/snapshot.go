// Package kitchen builds and diffs the per-order snapshots behind kitchen
// ticket re-prints, so the kitchen only reads what changed since the last
// printed note.
package kitchen

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
)

// maxDiffLines caps the emitted difference lines per ticket.
const maxDiffLines = 80

const (
	firstPrintLine    = "Primeira impressão da cozinha para esta comanda."
	noDifferencesLine = "Sem diferenças em relação à nota anterior."
)

// SnapshotAddition is one extra as the kitchen sees it.
type SnapshotAddition struct {
	Name     string `json:"nome"`
	Quantity int    `json:"quantidade"`
}

// SnapshotItem is one item line in normalized form: trimmed notes, additions
// sorted by (name, quantity) with blank or zero-quantity entries dropped.
type SnapshotItem struct {
	ItemID    int64              `json:"item_id"`
	Product   string             `json:"produto"`
	Quantity  int                `json:"quantidade"`
	Notes     string             `json:"observacoes"`
	Additions []SnapshotAddition `json:"adicionais"`
}

// Build normalizes the current item details into a snapshot.
func Build(items []orderdomain.ItemDetail) []SnapshotItem {
	snapshot := make([]SnapshotItem, 0, len(items))
	for _, item := range items {
		additions := make([]SnapshotAddition, 0, len(item.Additions))
		for _, ad := range item.Additions {
			name := strings.TrimSpace(ad.Name)
			if name == "" || ad.Quantity <= 0 {
				continue
			}
			additions = append(additions, SnapshotAddition{Name: name, Quantity: ad.Quantity})
		}
		sort.Slice(additions, func(i, j int) bool {
			if additions[i].Name != additions[j].Name {
				return additions[i].Name < additions[j].Name
			}
			return additions[i].Quantity < additions[j].Quantity
		})

		notes := ""
		if item.Notes != nil {
			notes = strings.TrimSpace(*item.Notes)
		}
		snapshot = append(snapshot, SnapshotItem{
			ItemID:    item.ID,
			Product:   strings.TrimSpace(item.ProductName),
			Quantity:  item.Quantity,
			Notes:     notes,
			Additions: additions,
		})
	}
	return snapshot
}

// Decode parses a persisted snapshot payload. A malformed payload reads as
// empty, which falls back to first-print behavior.
func Decode(payload []byte) []SnapshotItem {
	if len(payload) == 0 {
		return nil
	}
	var snapshot []SnapshotItem
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil
	}
	return snapshot
}

// Encode serializes a snapshot for persistence.
func Encode(snapshot []SnapshotItem) ([]byte, error) {
	return json.Marshal(snapshot)
}

// Diff compares the previous printed snapshot with the current one and emits
// one human-readable line per difference, in fixed order: added items,
// removed items, then per-item quantity/notes/additions changes.
func Diff(previous, current []SnapshotItem) []string {
	if len(previous) == 0 {
		return []string{firstPrintLine}
	}

	previousMap := indexByID(previous)
	currentMap := indexByID(current)

	addedIDs := missingFrom(currentMap, previousMap)
	removedIDs := missingFrom(previousMap, currentMap)
	commonIDs := presentInBoth(previousMap, currentMap)

	var differences []string

	for _, id := range addedIDs {
		item := currentMap[id]
		differences = append(differences,
			fmt.Sprintf("Adicionado: %s x%d.", displayName(item, id), item.Quantity))
	}
	for _, id := range removedIDs {
		item := previousMap[id]
		differences = append(differences,
			fmt.Sprintf("Removido: %s x%d.", displayName(item, id), item.Quantity))
	}

	for _, id := range commonIDs {
		before := previousMap[id]
		after := currentMap[id]

		name := displayName(after, id)
		if name == fmt.Sprintf("Item %d", id) && before.Product != "" {
			name = before.Product
		}

		if before.Quantity != after.Quantity {
			differences = append(differences,
				fmt.Sprintf("Quantidade alterada: %s de x%d para x%d.", name, before.Quantity, after.Quantity))
		}

		if before.Notes != after.Notes {
			if after.Notes != "" {
				differences = append(differences,
					fmt.Sprintf("Observação atualizada em %s: %s.", name, after.Notes))
			} else {
				differences = append(differences,
					fmt.Sprintf("Observação removida de %s.", name))
			}
		}

		adsBefore := formatAdditions(before.Additions)
		adsAfter := formatAdditions(after.Additions)
		if adsBefore != adsAfter {
			if adsAfter != "" {
				differences = append(differences,
					fmt.Sprintf("Adicionais alterados em %s: %s.", name, adsAfter))
			} else {
				differences = append(differences,
					fmt.Sprintf("Adicionais removidos de %s.", name))
			}
		}
	}

	if len(differences) == 0 {
		return []string{noDifferencesLine}
	}
	if len(differences) > maxDiffLines {
		differences = differences[:maxDiffLines]
	}
	return differences
}

func indexByID(snapshot []SnapshotItem) map[int64]SnapshotItem {
	out := make(map[int64]SnapshotItem, len(snapshot))
	for _, item := range snapshot {
		if item.ItemID > 0 {
			out[item.ItemID] = item
		}
	}
	return out
}

// missingFrom returns the ids of `in` that are absent from `from`, ascending.
func missingFrom(in, from map[int64]SnapshotItem) []int64 {
	var ids []int64
	for id := range in {
		if _, ok := from[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func presentInBoth(a, b map[int64]SnapshotItem) []int64 {
	var ids []int64
	for id := range a {
		if _, ok := b[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func displayName(item SnapshotItem, id int64) string {
	if item.Product != "" {
		return item.Product
	}
	return fmt.Sprintf("Item %d", id)
}

// formatAdditions renders additions as a sorted, comma-joined "name xN" list.
func formatAdditions(additions []SnapshotAddition) string {
	parts := make([]string, 0, len(additions))
	for _, ad := range additions {
		name := strings.TrimSpace(ad.Name)
		if name == "" || ad.Quantity <= 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s x%d", name, ad.Quantity))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
