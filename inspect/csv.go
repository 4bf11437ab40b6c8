package inspect

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// FindingsCSV renders variables, literals, diagnostics and notes to CSV.
// Every row is kind,name,detail,position.
func FindingsCSV(res InspectResult, withHeader bool) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if withHeader {
		_ = w.Write([]string{"kind", "name", "detail", "position"})
	}

	for _, v := range res.Variables {
		detail := fmt.Sprintf("assignments=%d reads=%d declared=%s", v.Assignments, v.Reads, strconv.FormatBool(v.Declared))
		_ = w.Write([]string{"variable", v.Name, detail, v.FirstSeen})
	}

	for _, l := range res.Literals {
		_ = w.Write([]string{"literal", l.Text, l.Normalized, l.Position})
	}

	for _, d := range res.Diagnostics {
		_ = w.Write([]string{"diagnostic", d.Kind, d.Delimiter, d.Position})
	}

	for _, n := range res.Notes {
		_ = w.Write([]string{"note", "", n, ""})
	}

	w.Flush()

	return buf.Bytes(), w.Error()
}
