package export

import (
	"encoding/csv"
	"io"
	"strings"
)

// WriteTSV serializes the table as a tab-separated flat file. Every cell is
// flattened so multi-line values (image lists in particular) cannot break the
// row structure.
func WriteTSV(table Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(flattenRow(table.Headers)); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := cw.Write(flattenRow(row)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func flattenRow(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.Join(strings.Fields(c), " ")
	}
	return out
}
