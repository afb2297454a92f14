package render

import (
	"math"
	"strings"
)

// DefaultTextCols is the text output width when none is given.
const DefaultTextCols = 80

// RenderText draws the frame as boxes in a character grid cols wide.
// Terminal cells are about twice as tall as wide, so rows are scaled by half.
// Rows are rounded the same way as box edges, so the last row always holds
// the bottom edge of the tallest column.
func RenderText(f Frame, cols int) string {
	if cols <= 0 {
		cols = DefaultTextCols
	}
	if f.Width <= 0 || f.Height <= 0 {
		return ""
	}
	sx := float64(cols) / f.Width
	sy := sx / 2
	rows := max(1, int(math.Round(f.Height*sy)))

	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}

	for _, t := range f.Tiles {
		x0 := clamp(int(math.Round(t.X*sx)), 0, cols-1)
		x1 := clamp(int(math.Round((t.X+t.Width)*sx))-1, x0, cols-1)
		y0 := clamp(int(math.Round(t.Y*sy)), 0, rows-1)
		y1 := clamp(int(math.Round((t.Y+t.Height)*sy))-1, y0, rows-1)
		drawBox(grid, x0, y0, x1, y1)

		labelRow := y0
		if y1-y0 >= 2 {
			labelRow = y0 + 1
		}
		room := x1 - x0 - 1
		label := []rune(t.Label)
		if len(label) > room {
			label = label[:max(0, room)]
		}
		copy(grid[labelRow][x0+1:], label)
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func drawBox(grid [][]rune, x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			edgeX := x == x0 || x == x1
			edgeY := y == y0 || y == y1
			switch {
			case edgeX && edgeY:
				grid[y][x] = '+'
			case edgeY:
				grid[y][x] = '-'
			case edgeX:
				grid[y][x] = '|'
			default:
				grid[y][x] = ' '
			}
		}
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
