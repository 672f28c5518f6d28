package importer

import (
	"strconv"
	"strings"
)

// Column keys produced when turning a sheet into rows.
const (
	// RowNumKey is row metadata some spreadsheet tools attach; never meaningful.
	RowNumKey = "__rowNum__"
	// EmptyKey names a column whose header cell is blank. Further blank
	// headers get "__EMPTY_1", "__EMPTY_2", ...
	EmptyKey = "__EMPTY"
)

// Cell is one keyed value of a row.
type Cell struct {
	Key   string
	Value string
}

// Row is an ordered set of cells keyed by column header.
type Row []Cell

// Meaningful returns the cells that carry data: row metadata and blank
// values are dropped.
func (r Row) Meaningful() []Cell {
	cells := make([]Cell, 0, len(r))
	for _, c := range r {
		if c.Key == RowNumKey || strings.TrimSpace(c.Value) == "" {
			continue
		}
		cells = append(cells, c)
	}
	return cells
}

// rowsFromTable turns a rectangular-ish table into keyed rows. The first line
// is the header: its values become the column keys for every following line.
// Blank cells are omitted from the resulting rows.
func rowsFromTable(table [][]string) []Row {
	if len(table) == 0 {
		return nil
	}

	width := 0
	for _, line := range table {
		if len(line) > width {
			width = len(line)
		}
	}

	keys := headerKeys(table[0], width)

	rows := make([]Row, 0, len(table)-1)
	for _, line := range table[1:] {
		row := make(Row, 0, len(line))
		for i, v := range line {
			if strings.TrimSpace(v) == "" {
				continue
			}
			row = append(row, Cell{Key: keys[i], Value: v})
		}
		rows = append(rows, row)
	}
	return rows
}

func headerKeys(header []string, width int) []string {
	keys := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		base := ""
		if i < len(header) {
			base = strings.TrimSpace(header[i])
		}
		if base == "" {
			base = EmptyKey
		}
		key := base
		if n := seen[base]; n > 0 {
			key = base + "_" + strconv.Itoa(n)
		}
		seen[base]++
		keys[i] = key
	}
	return keys
}
