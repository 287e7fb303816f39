package engine

import (
	"sort"

	"github.com/piwi3910/SlabTile/internal/model"
)

// CutPiece is the bounding rectangle of one cut tile, placed on a stock tile.
type CutPiece struct {
	TileIndex int     `json:"tile_index"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Rotated   bool    `json:"rotated"`
}

// StockTile is one whole tile with the pieces cut from it.
type StockTile struct {
	Pieces []CutPiece `json:"pieces"`
}

// UsedArea returns the area of the pieces placed on the tile.
func (s StockTile) UsedArea() float64 {
	var a float64
	for _, p := range s.Pieces {
		a += p.Width * p.Height
	}
	return a
}

// CutPlan groups the cut pieces of a layout onto as few whole tiles as possible.
type CutPlan struct {
	Stock    []StockTile `json:"stock"`
	CutTiles int         `json:"cut_tiles"`
	Saved    int         `json:"saved"` // Whole tiles saved against one tile per cut piece
}

// TilesUsed returns the number of whole tiles the cut pieces are taken from.
func (p CutPlan) TilesUsed() int { return len(p.Stock) }

// CutPlanOptions controls the piece packing.
type CutPlanOptions struct {
	Kerf        float64 // Saw blade width between pieces
	AllowRotate bool    // Pieces may be turned 90 degrees (no pattern direction)
}

type pieceSize struct {
	tileIndex int
	w, h      float64
}

func (p pieceSize) area() float64 { return p.w * p.h }

// PlanCuts packs the bounding rectangle of every cut tile onto whole tiles,
// largest pieces first. Each piece goes to the first stock tile that has
// room for it, at the free rectangle that wastes the least area.
func PlanCuts(result model.LayoutResult, opts CutPlanOptions) CutPlan {
	tw, th := result.Settings.TileWidth, result.Settings.TileHeight

	var pieces []pieceSize
	for _, t := range result.Tiles {
		if t.Cut {
			lo, hi := t.Local.BoundingBox()
			pieces = append(pieces, pieceSize{tileIndex: t.Index, w: hi.X - lo.X, h: hi.Y - lo.Y})
		}
	}

	plan := CutPlan{CutTiles: len(pieces)}
	if len(pieces) == 0 || tw <= 0 || th <= 0 {
		return plan
	}
	sort.SliceStable(pieces, func(i, j int) bool { return pieces[i].area() > pieces[j].area() })

	var bins []*stockBin
	for _, pc := range pieces {
		placed := false
		for i, b := range bins {
			if cp, ok := b.place(pc, opts.AllowRotate); ok {
				plan.Stock[i].Pieces = append(plan.Stock[i].Pieces, cp)
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		b := newStockBin(tw, th, opts.Kerf)
		cp, ok := b.place(pc, opts.AllowRotate)
		if !ok {
			// Oversized with kerf: the piece takes a tile of its own.
			cp = CutPiece{TileIndex: pc.tileIndex, Width: pc.w, Height: pc.h}
			b.free = nil
		}
		bins = append(bins, b)
		plan.Stock = append(plan.Stock, StockTile{Pieces: []CutPiece{cp}})
	}

	plan.Saved = plan.CutTiles - len(plan.Stock)
	return plan
}

const packEps = 0.001

type rect struct {
	x, y, w, h float64
}

func (r rect) right() float64 { return r.x + r.w }
func (r rect) top() float64   { return r.y + r.h }

// overlaps reports whether the interiors of r and o intersect.
func (r rect) overlaps(o rect) bool {
	return r.x < o.right()-packEps && r.right() > o.x+packEps &&
		r.y < o.top()-packEps && r.top() > o.y+packEps
}

func (r rect) contains(o rect) bool {
	return r.x <= o.x+packEps && r.y <= o.y+packEps &&
		r.right() >= o.right()-packEps && r.top() >= o.top()-packEps
}

// stockBin tracks the maximal free rectangles left on one whole tile.
type stockBin struct {
	free []rect
	kerf float64
}

func newStockBin(width, height, kerf float64) *stockBin {
	// Kerf only separates pieces, so the usable area grows by one kerf.
	return &stockBin{free: []rect{{0, 0, width + kerf, height + kerf}}, kerf: kerf}
}

// fit returns the free rectangle with the least leftover area for a w x h
// piece, or -1 when none can hold it.
func (b *stockBin) fit(w, h float64) (idx int, waste float64) {
	idx = -1
	for i, r := range b.free {
		if w+b.kerf > r.w+packEps || h+b.kerf > r.h+packEps {
			continue
		}
		if left := r.w*r.h - w*h; idx < 0 || left < waste {
			idx, waste = i, left
		}
	}
	return idx, waste
}

// place puts a piece on the tile, turned when rotation is allowed and the
// turned piece wastes strictly less.
func (b *stockBin) place(pc pieceSize, allowRotate bool) (CutPiece, bool) {
	w, h, rotated := pc.w, pc.h, false
	idx, waste := b.fit(w, h)
	if allowRotate {
		if ri, rw := b.fit(h, w); ri >= 0 && (idx < 0 || rw < waste) {
			w, h, rotated, idx = h, w, true, ri
		}
	}
	if idx < 0 {
		return CutPiece{}, false
	}

	at := b.free[idx]
	b.split(rect{x: at.x, y: at.y, w: w + b.kerf, h: h + b.kerf})
	return CutPiece{TileIndex: pc.tileIndex, X: at.x, Y: at.y, Width: w, Height: h, Rotated: rotated}, true
}

// split carves used out of every free rectangle it overlaps, keeping the
// maximal leftovers on each side.
func (b *stockBin) split(used rect) {
	var next []rect
	for _, r := range b.free {
		if !r.overlaps(used) {
			next = append(next, r)
			continue
		}
		if used.x > r.x+packEps {
			next = append(next, rect{r.x, r.y, used.x - r.x, r.h})
		}
		if used.right() < r.right()-packEps {
			next = append(next, rect{used.right(), r.y, r.right() - used.right(), r.h})
		}
		if used.y > r.y+packEps {
			next = append(next, rect{r.x, r.y, r.w, used.y - r.y})
		}
		if used.top() < r.top()-packEps {
			next = append(next, rect{r.x, used.top(), r.w, r.top() - used.top()})
		}
	}
	b.free = pruneContained(next)
}

// pruneContained drops rectangles lying inside another one. Of identical
// rectangles the first is kept.
func pruneContained(rects []rect) []rect {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]rect, 0, len(rects))
outer:
	for i, a := range rects {
		for j, b := range rects {
			if i != j && b.contains(a) && (j < i || !a.contains(b)) {
				continue outer
			}
		}
		kept = append(kept, a)
	}
	return kept
}
