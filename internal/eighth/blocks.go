package eighth

import (
	"sort"
	"time"

	"github.com/iliyamo/eighth-period-signup/internal/model"
)

// AllBlocksLimit is the sentinel passed to NextBlocks and
// PreviousBlocks to request every neighbor instead of a capped count.
const AllBlocksLimit = -1

// signupRolloverHour is the local hour at which "today" rolls over to
// the next calendar day for upcoming-block purposes.  Before 17:00 a
// block scheduled for today still counts as upcoming.
const signupRolloverHour = 17

// SortBlocks orders blocks in place by (date, letter) ascending.
func SortBlocks(blocks []model.Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Compare(blocks[j]) < 0
	})
}

// effectiveToday collapses now to the earliest block date still
// considered upcoming: today's date before the rollover hour, the
// next day from then on.
func effectiveToday(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if now.Hour() >= signupRolloverHour {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// FirstUpcomingBlock returns the earliest block whose date is not
// before the effective today derived from now, or nil when no such
// block exists.  The input need not be sorted.
func FirstUpcomingBlock(blocks []model.Block, now time.Time) *model.Block {
	today := effectiveToday(now)
	var first *model.Block
	for i := range blocks {
		b := blocks[i]
		if b.Date.Truncate(24 * time.Hour).Before(today) {
			continue
		}
		if first == nil || b.Compare(*first) < 0 {
			first = &blocks[i]
		}
	}
	return first
}

// CurrentBlocks returns the contiguous timeline surrounding the first
// upcoming block: every earlier block in ascending order, the block
// itself, then every later block.  When no upcoming block exists the
// result is empty.
func CurrentBlocks(blocks []model.Block, now time.Time) []model.Block {
	first := FirstUpcomingBlock(blocks, now)
	if first == nil {
		return nil
	}
	return SurroundingBlocks(blocks, *first)
}

// SurroundingBlocks concatenates the blocks strictly before b, b
// itself, and the blocks strictly after b, all in ascending order.
// The result contains no duplicates even when b has no neighbors.
func SurroundingBlocks(blocks []model.Block, b model.Block) []model.Block {
	prev := PreviousBlocks(blocks, b, AllBlocksLimit)
	next := NextBlocks(blocks, b, AllBlocksLimit)
	out := make([]model.Block, 0, len(prev)+len(next)+1)
	out = append(out, prev...)
	out = append(out, b)
	out = append(out, next...)
	return out
}

// NextBlocks returns the blocks strictly after b in the total order,
// ascending, capped to limit results.  Pass AllBlocksLimit for no cap.
func NextBlocks(blocks []model.Block, b model.Block, limit int) []model.Block {
	var out []model.Block
	for _, o := range blocks {
		if b.Compare(o) < 0 {
			out = append(out, o)
		}
	}
	SortBlocks(out)
	if limit != AllBlocksLimit && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// PreviousBlocks returns the blocks strictly before b in the total
// order, ascending, capped to the limit nearest neighbors.  Pass
// AllBlocksLimit for no cap.
func PreviousBlocks(blocks []model.Block, b model.Block, limit int) []model.Block {
	var out []model.Block
	for _, o := range blocks {
		if b.Compare(o) > 0 {
			out = append(out, o)
		}
	}
	SortBlocks(out)
	if limit != AllBlocksLimit && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
