package report

import "github.com/spec-kit/worker-directory/internal/domain"

// Column describes one table column. Excluded columns are dropped from the raster.
type Column struct {
	Header   string
	Excluded bool
}

// Table is the rendered shape of the staff list: one header and one row per record.
type Table struct {
	Columns []Column
	Rows    [][]string
}

// TableFromRecords lays out records the way the staff list shows them,
// including the interactive Actions column flagged as excluded.
func TableFromRecords(records []domain.StaffRecord) Table {
	table := Table{
		Columns: []Column{
			{Header: "Name"},
			{Header: "ID"},
			{Header: "Type"},
			{Header: "Number"},
			{Header: "Email"},
			{Header: "Address"},
			{Header: "Join Date"},
			{Header: "License"},
			{Header: "Actions", Excluded: true},
		},
		Rows: make([][]string, 0, len(records)),
	}
	for _, r := range records {
		table.Rows = append(table.Rows, []string{
			r.Username,
			r.DisplayID,
			string(r.Type),
			r.Number.String(),
			r.Email,
			r.Address,
			r.JoinDate.String(),
			r.License.String(),
			"Update  Delete",
		})
	}
	return table
}

// visible returns the indexes of the columns that survive exclusion.
func (t Table) visible() []int {
	idx := make([]int, 0, len(t.Columns))
	for i, c := range t.Columns {
		if !c.Excluded {
			idx = append(idx, i)
		}
	}
	return idx
}

func (t Table) cell(row, col int) string {
	if col < len(t.Rows[row]) {
		return t.Rows[row][col]
	}
	return ""
}
