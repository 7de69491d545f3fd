package analytics

import "strconv"

// DefaultHeatmapWidth is the number of cells per heatmap row.
const DefaultHeatmapWidth = 10

// Cell is one heatmap square. Blank cells pad the final row past max.
type Cell struct {
	Number int    `json:"number"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
	Blank  bool   `json:"blank,omitempty"`
}

// Heatmap lays out [min, max] in rows of width cells with their frequencies.
func (a Analytics) Heatmap(min, max, width int) [][]Cell {
	if width <= 0 || max < min {
		return nil
	}
	freq := a.NumberFrequency()
	total := max - min + 1
	rows := (total + width - 1) / width

	grid := make([][]Cell, rows)
	for row := range grid {
		grid[row] = make([]Cell, width)
		for col := range grid[row] {
			num := min + row*width + col
			if num > max {
				grid[row][col] = Cell{Number: num, Blank: true}
				continue
			}
			grid[row][col] = Cell{Number: num, Label: strconv.Itoa(num), Count: freq[num]}
		}
	}
	return grid
}
