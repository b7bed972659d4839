package engine

import (
	"sort"

	"github.com/ironsheep/pixelmap-mcp/internal/palette"
)

// CounterRow is one line of the usage counter list.
type CounterRow struct {
	GUID       int    `json:"guid"`
	Name       string `json:"name"`
	Hex        string `json:"hex"`
	Count      int    `json:"count"`
	Suppressed bool   `json:"suppressed"`
}

// CounterBoard keeps the counter list order stable while entries are
// suppressed and re-quantized.
//
// Whenever nothing is suppressed the order is re-snapshotted: used entries
// by count, descending. While suppressions are active the snapshot entries
// stay in place (even at zero) and any other used or suppressed entries
// follow by count.
type CounterBoard struct {
	initial []int
}

// Reset drops the snapshot, for a new image.
func (b *CounterBoard) Reset() {
	b.initial = nil
}

// Arrange orders the counts of res for display.
func (b *CounterBoard) Arrange(pal *palette.Palette, res *Result, suppressed palette.GUIDSet) []CounterRow {
	entries := pal.Entries()
	rows := make([]CounterRow, len(entries))
	for i, e := range entries {
		rows[i] = CounterRow{
			GUID:       e.GUID,
			Name:       e.Name,
			Hex:        e.Hex(),
			Count:      res.Counts[e.GUID],
			Suppressed: suppressed.Has(e.GUID),
		}
	}

	if suppressed.Len() == 0 {
		used := make([]CounterRow, 0, len(rows))
		for _, r := range rows {
			if r.Count > 0 {
				used = append(used, r)
			}
		}
		byCount(used)
		b.initial = b.initial[:0]
		for _, r := range used {
			b.initial = append(b.initial, r.GUID)
		}
	}

	inInitial := palette.NewGUIDSet(b.initial...)
	out := make([]CounterRow, 0, len(b.initial))
	for _, guid := range b.initial {
		if i := pal.Position(guid); i >= 0 {
			out = append(out, rows[i])
		}
	}

	extras := make([]CounterRow, 0)
	for _, r := range rows {
		if !inInitial.Has(r.GUID) && (r.Count > 0 || r.Suppressed) {
			extras = append(extras, r)
		}
	}
	byCount(extras)

	return append(out, extras...)
}

// byCount sorts by count descending, keeping palette order on ties.
func byCount(rows []CounterRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
}
