package scheduler

import (
	"fmt"

	"github.com/alexanderramin/studyblocks/internal/domain"
)

// EffectiveMaxBlock is the item's max block length capped by the global
// limit; maxBlockCap <= 0 means no global limit.
func EffectiveMaxBlock(item domain.WorkItem, maxBlockCap int) int {
	if maxBlockCap > 0 && maxBlockCap < item.MaxBlockMin {
		return maxBlockCap
	}
	return item.MaxBlockMin
}

// SplitWorkItem chunks an item larger than its effective max block into
// near-equal sub-items that each fit one block. Sub-items carry the parent id
// and share the parent's deadline and weights. Items that already fit, or
// whose bounds are invalid, are returned as-is for the placer to judge.
//
// Chunks never drop below MinBlockMin. When no chunk count satisfies both
// bounds the minimum wins and chunks exceed the max; the placer then books
// the max for each and logs the shortfall.
func SplitWorkItem(item domain.WorkItem, maxBlockCap int) []domain.WorkItem {
	maxB := EffectiveMaxBlock(item, maxBlockCap)
	if maxB <= 0 || item.TotalMin <= maxB || item.MinBlockMin > maxB {
		return []domain.WorkItem{item}
	}

	n := (item.TotalMin + maxB - 1) / maxB
	if item.MinBlockMin > 0 && item.TotalMin/n < item.MinBlockMin {
		n = max(1, item.TotalMin/item.MinBlockMin)
	}
	if n == 1 {
		return []domain.WorkItem{item}
	}
	base := item.TotalMin / n
	extra := item.TotalMin % n

	parent := item.ID
	out := make([]domain.WorkItem, n)
	for i := range n {
		sub := item
		sub.ID = fmt.Sprintf("%s#%d", item.ID, i+1)
		sub.ParentID = &parent
		sub.Title = fmt.Sprintf("%s (%d/%d)", item.Title, i+1, n)
		sub.TotalMin = base
		if i < extra {
			sub.TotalMin++
		}
		out[i] = sub
	}
	return out
}

// SplitAll applies SplitWorkItem to every item, preserving order.
func SplitAll(items []domain.WorkItem, maxBlockCap int) []domain.WorkItem {
	out := make([]domain.WorkItem, 0, len(items))
	for _, it := range items {
		out = append(out, SplitWorkItem(it, maxBlockCap)...)
	}
	return out
}
