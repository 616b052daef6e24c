package eighth

import (
	"testing"
	"time"

	"github.com/iliyamo/eighth-period-signup/internal/model"
)

func letters(blocks []model.Block) string {
	s := ""
	for _, b := range blocks {
		s += b.Letter
	}
	return s
}

func TestFirstUpcomingBlockRollover(t *testing.T) {
	blocks := []model.Block{
		{ID: 1, Date: date(2024, 1, 9), Letter: "A"},
		{ID: 2, Date: date(2024, 1, 10), Letter: "A"},
		{ID: 3, Date: date(2024, 1, 10), Letter: "B"},
		{ID: 4, Date: date(2024, 1, 12), Letter: "A"},
	}

	tests := []struct {
		name   string
		now    time.Time
		wantID uint64
	}{
		{"midnight on the day", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 2},
		{"16:59 same as midnight", time.Date(2024, 1, 10, 16, 59, 0, 0, time.UTC), 2},
		{"17:01 advances a day", time.Date(2024, 1, 10, 17, 1, 0, 0, time.UTC), 4},
		{"gap day before rollover", time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FirstUpcomingBlock(blocks, tt.now)
			if got == nil {
				t.Fatal("FirstUpcomingBlock() = nil, want a block")
			}
			if got.ID != tt.wantID {
				t.Errorf("FirstUpcomingBlock() = block %d, want %d", got.ID, tt.wantID)
			}
		})
	}

	t.Run("no future block", func(t *testing.T) {
		now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
		if got := FirstUpcomingBlock(blocks, now); got != nil {
			t.Errorf("FirstUpcomingBlock() = block %d, want nil", got.ID)
		}
	})
}

func TestNextAndPreviousBlocks(t *testing.T) {
	blocks := []model.Block{
		{ID: 3, Date: date(2024, 1, 11), Letter: "A"},
		{ID: 1, Date: date(2024, 1, 10), Letter: "A"},
		{ID: 2, Date: date(2024, 1, 10), Letter: "B"},
		{ID: 4, Date: date(2024, 1, 11), Letter: "B"},
	}
	anchor := blocks[2] // Jan 10 B

	next := NextBlocks(blocks, anchor, AllBlocksLimit)
	if len(next) != 2 || next[0].ID != 3 || next[1].ID != 4 {
		t.Errorf("NextBlocks(all) = %v, want blocks 3,4", next)
	}
	if got := NextBlocks(blocks, anchor, 1); len(got) != 1 || got[0].ID != 3 {
		t.Errorf("NextBlocks(limit=1) = %v, want block 3", got)
	}

	prev := PreviousBlocks(blocks, anchor, AllBlocksLimit)
	if len(prev) != 1 || prev[0].ID != 1 {
		t.Errorf("PreviousBlocks(all) = %v, want block 1", prev)
	}
	// Same-date ordering falls back to the letter.
	last := blocks[3] // Jan 11 B
	prev = PreviousBlocks(blocks, last, 2)
	if len(prev) != 2 || prev[0].ID != 2 || prev[1].ID != 3 {
		t.Errorf("PreviousBlocks(limit=2) = %v, want blocks 2,3", prev)
	}
}

func TestSurroundingBlocks(t *testing.T) {
	blocks := []model.Block{
		{ID: 2, Date: date(2024, 1, 10), Letter: "B"},
		{ID: 1, Date: date(2024, 1, 10), Letter: "A"},
		{ID: 3, Date: date(2024, 1, 11), Letter: "A"},
	}

	got := SurroundingBlocks(blocks, blocks[0])
	if letters(got) != "ABA" || got[0].ID != 1 || got[1].ID != 2 || got[2].ID != 3 {
		t.Errorf("SurroundingBlocks() = %v, want blocks 1,2,3", got)
	}

	// A block with no neighbors surrounds only itself.
	lone := []model.Block{{ID: 9, Date: date(2024, 3, 1), Letter: "A"}}
	if got := SurroundingBlocks(lone, lone[0]); len(got) != 1 || got[0].ID != 9 {
		t.Errorf("SurroundingBlocks(lone) = %v, want just block 9", got)
	}
}

func TestCurrentBlocks(t *testing.T) {
	blocks := []model.Block{
		{ID: 1, Date: date(2024, 1, 9), Letter: "A"},
		{ID: 2, Date: date(2024, 1, 10), Letter: "A"},
		{ID: 3, Date: date(2024, 1, 11), Letter: "A"},
	}

	got := CurrentBlocks(blocks, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	if len(got) != 3 || got[0].ID != 1 || got[1].ID != 2 || got[2].ID != 3 {
		t.Errorf("CurrentBlocks() = %v, want blocks 1,2,3 in order", got)
	}

	if got := CurrentBlocks(blocks, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)); len(got) != 0 {
		t.Errorf("CurrentBlocks(after all blocks) = %v, want empty", got)
	}
}
