package engine

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docshield/pdf-redaction-service/internal/domain"
)

const (
	// rowTolerance groups glyphs whose baselines sit within this many
	// points of each other into the same line.
	rowTolerance = 3.0
	// wordSpaceMultiplier is the fraction of the font size beyond which
	// a horizontal gap splits two glyph runs into separate words.
	wordSpaceMultiplier = 0.3
	// columnGapThreshold is the horizontal gap, in points, that separates
	// two words into different columns.
	columnGapThreshold = 50.0
)

// word is a run of adjacent glyphs on one line, with its bounding box in
// top-left-origin points.
type word struct {
	Text string
	Box  domain.Position
	Row  int
}

// line is a full row of glyphs, kept at glyph granularity so substring
// matches can be mapped back to page positions.
type line struct {
	Text   string
	glyphs []glyphSpan
}

// glyphSpan ties a byte range of the line text to the box of the glyph
// that produced it.
type glyphSpan struct {
	start, end int
	box        domain.Position
}

// glyphBox converts a glyph's bottom-left-origin baseline position into a
// top-left-origin box, using the font size as the glyph height. The glyph
// coordinates are translated by the media box origin first.
func glyphBox(t pdf.Text, box mediaBox) domain.Position {
	x := t.X - box.OriginX
	y := t.Y - box.OriginY
	return flipY(x, y, x+t.W, y+t.FontSize, box.Height)
}

// groupIntoRows buckets glyphs by baseline Y, top of page first.
func groupIntoRows(texts []pdf.Text) [][]pdf.Text {
	if len(texts) == 0 {
		return nil
	}

	type bucket struct {
		yMin, yMax float64
		texts      []pdf.Text
	}

	var buckets []bucket
	for _, t := range texts {
		placed := false
		for i := range buckets {
			if t.Y >= buckets[i].yMin-rowTolerance && t.Y <= buckets[i].yMax+rowTolerance {
				buckets[i].texts = append(buckets[i].texts, t)
				if t.Y < buckets[i].yMin {
					buckets[i].yMin = t.Y
				}
				if t.Y > buckets[i].yMax {
					buckets[i].yMax = t.Y
				}
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, bucket{yMin: t.Y, yMax: t.Y, texts: []pdf.Text{t}})
		}
	}

	// Higher Y is higher on the page in glyph space.
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].yMax > buckets[j].yMax
	})

	rows := make([][]pdf.Text, len(buckets))
	for i, b := range buckets {
		row := b.texts
		sort.Slice(row, func(a, c int) bool { return row[a].X < row[c].X })
		rows[i] = row
	}
	return rows
}

// filterTexts drops empty and whitespace-only glyph entries.
func filterTexts(texts []pdf.Text) []pdf.Text {
	filtered := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) != "" {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// extractLines builds searchable lines from a page's glyph stream.
func extractLines(texts []pdf.Text, box mediaBox) []line {
	rows := groupIntoRows(filterTexts(texts))

	lines := make([]line, 0, len(rows))
	for _, row := range rows {
		var ln line
		var sb strings.Builder
		var prev *pdf.Text
		for i := range row {
			t := row[i]
			if prev != nil {
				gap := t.X - (prev.X + prev.W)
				threshold := wordSpaceMultiplier * t.FontSize
				if threshold == 0 {
					threshold = 3.0
				}
				if gap > threshold {
					sb.WriteByte(' ')
				}
			}
			start := sb.Len()
			sb.WriteString(t.S)
			ln.glyphs = append(ln.glyphs, glyphSpan{
				start: start,
				end:   sb.Len(),
				box:   glyphBox(t, box),
			})
			prev = &row[i]
		}
		ln.Text = sb.String()
		lines = append(lines, ln)
	}
	return lines
}

// findInLine returns the union box of the glyphs covering each
// case-insensitive occurrence of term in the line.
func (ln line) findInLine(term string) []domain.Position {
	lower := strings.ToLower(ln.Text)
	needle := strings.ToLower(term)
	if needle == "" {
		return nil
	}

	var boxes []domain.Position
	from := 0
	for {
		idx := strings.Index(lower[from:], needle)
		if idx < 0 {
			break
		}
		start := from + idx
		end := start + len(needle)

		var box domain.Position
		first := true
		for _, g := range ln.glyphs {
			if g.end <= start || g.start >= end {
				continue
			}
			if first {
				box = g.box
				first = false
				continue
			}
			box.X0 = math.Min(box.X0, g.box.X0)
			box.Y0 = math.Min(box.Y0, g.box.Y0)
			box.X1 = math.Max(box.X1, g.box.X1)
			box.Y1 = math.Max(box.Y1, g.box.Y1)
		}
		if !first {
			boxes = append(boxes, box)
		}
		from = end
	}
	return boxes
}

// extractWords merges glyph runs into words, row by row.
func extractWords(texts []pdf.Text, box mediaBox) []word {
	rows := groupIntoRows(filterTexts(texts))

	var words []word
	for rowIdx, row := range rows {
		var current *word
		for _, t := range row {
			gbox := glyphBox(t, box)
			if current == nil {
				w := word{Text: t.S, Box: gbox, Row: rowIdx}
				current = &w
				continue
			}

			gap := gbox.X0 - current.Box.X1
			threshold := wordSpaceMultiplier * t.FontSize
			if threshold == 0 {
				threshold = 3.0
			}
			if gap <= threshold {
				current.Text += t.S
				current.Box.X1 = math.Max(current.Box.X1, gbox.X1)
				current.Box.Y0 = math.Min(current.Box.Y0, gbox.Y0)
				current.Box.Y1 = math.Max(current.Box.Y1, gbox.Y1)
			} else {
				words = append(words, *current)
				w := word{Text: t.S, Box: gbox, Row: rowIdx}
				current = &w
			}
		}
		if current != nil {
			words = append(words, *current)
		}
	}
	return words
}

// substringBox slices a word's box proportionally to cover only the
// matched substring of its text.
func substringBox(w word, runeStart, runeLen int) domain.Position {
	total := len([]rune(w.Text))
	if total == 0 || runeLen <= 0 {
		return w.Box
	}
	width := w.Box.Width()
	return domain.Position{
		X0: w.Box.X0 + width*float64(runeStart)/float64(total),
		Y0: w.Box.Y0,
		X1: w.Box.X0 + width*float64(runeStart+runeLen)/float64(total),
		Y1: w.Box.Y1,
	}
}

// matchSingleWord finds words whose text contains the single-word term and
// returns the proportional substring box of each match.
func matchSingleWord(words []word, term string) []domain.Position {
	needle := strings.ToLower(term)
	needleLen := len([]rune(needle))

	var boxes []domain.Position
	for _, w := range words {
		lower := strings.ToLower(w.Text)
		idx := strings.Index(lower, needle)
		if idx < 0 {
			continue
		}
		runeStart := len([]rune(lower[:idx]))
		boxes = append(boxes, substringBox(w, runeStart, needleLen))
	}
	return boxes
}

// matchConsecutive finds runs of words on the same row whose texts match
// the term's tokens in order and returns the union box of each run.
func matchConsecutive(words []word, tokens []string) []domain.Position {
	if len(tokens) == 0 {
		return nil
	}

	var boxes []domain.Position
	for i := 0; i+len(tokens) <= len(words); i++ {
		matched := true
		for j, tok := range tokens {
			w := words[i+j]
			if w.Row != words[i].Row || !strings.EqualFold(w.Text, tok) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		boxes = append(boxes, unionBoxes(words[i:i+len(tokens)]))
	}
	return boxes
}

// groupIntoColumns splits words into vertical columns wherever the
// horizontal gap between neighbours exceeds the column threshold.
func groupIntoColumns(words []word) [][]word {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]word, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Box.X0 < sorted[j].Box.X0 })

	var columns [][]word
	current := []word{sorted[0]}
	rightEdge := sorted[0].Box.X1
	for _, w := range sorted[1:] {
		if w.Box.X0-rightEdge > columnGapThreshold {
			columns = append(columns, current)
			current = []word{w}
		} else {
			current = append(current, w)
		}
		rightEdge = math.Max(rightEdge, w.Box.X1)
	}
	columns = append(columns, current)

	// Reading order within a column is top to bottom, left to right.
	for _, col := range columns {
		sort.Slice(col, func(i, j int) bool {
			if col[i].Box.Y0 != col[j].Box.Y0 {
				return col[i].Box.Y0 < col[j].Box.Y0
			}
			return col[i].Box.X0 < col[j].Box.X0
		})
	}
	return columns
}

// matchColumns is the fallback for terms broken across layout columns:
// each column is first narrowed to the words matching a term token, so
// unrelated words sitting between the tokens in reading order do not
// break the match. A window of candidates matches when its joined text
// contains the term or the term contains the joined text.
func matchColumns(words []word, term string) []domain.Position {
	needle := strings.ToLower(term)
	tokens := strings.Fields(needle)
	if len(tokens) == 0 {
		return nil
	}

	var boxes []domain.Position
	for _, col := range groupIntoColumns(words) {
		candidates := filterTokenMatches(col, tokens)
		for i := 0; i+len(tokens) <= len(candidates); i++ {
			window := candidates[i : i+len(tokens)]
			parts := make([]string, len(window))
			for j, w := range window {
				parts[j] = strings.ToLower(w.Text)
			}
			joined := strings.Join(parts, " ")
			if strings.Contains(joined, needle) || strings.Contains(needle, joined) {
				boxes = append(boxes, unionBoxes(window))
			}
		}
	}
	return boxes
}

// filterTokenMatches keeps the words whose text matches any term token,
// preserving reading order.
func filterTokenMatches(col []word, tokens []string) []word {
	var candidates []word
	for _, w := range col {
		lower := strings.ToLower(w.Text)
		for _, tok := range tokens {
			if strings.Contains(lower, tok) || strings.Contains(tok, lower) {
				candidates = append(candidates, w)
				break
			}
		}
	}
	return candidates
}

func unionBoxes(words []word) domain.Position {
	box := words[0].Box
	for _, w := range words[1:] {
		box.X0 = math.Min(box.X0, w.Box.X0)
		box.Y0 = math.Min(box.Y0, w.Box.Y0)
		box.X1 = math.Max(box.X1, w.Box.X1)
		box.Y1 = math.Max(box.Y1, w.Box.Y1)
	}
	return box
}
