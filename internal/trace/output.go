package trace

import (
	"fmt"
	"io"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteJSON writes records as a JSON array, one record per line.
func WriteJSON(w io.Writer, records []Record) error {
	if _, err := io.WriteString(w, "[\n"); err != nil {
		return err
	}
	for i, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		sep := ",\n"
		if i == len(records)-1 {
			sep = "\n"
		}
		if _, err := fmt.Fprintf(w, "  %s%s", data, sep); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]\n")
	return err
}

// ReadJSON decodes records written by WriteJSON.
func ReadJSON(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	gestureStyle = cellStyle.Foreground(lipgloss.Color("#89b4fa"))
	forwardStyle = cellStyle.Foreground(lipgloss.Color("#a6adc8"))
	cursorStyle  = cellStyle.Foreground(lipgloss.Color("#f9e2af"))
)

// WriteTable renders records as a table. Color is only applied when color is
// set.
func WriteTable(w io.Writer, records []Record, color bool) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.Line),
			r.Elapsed.String(),
			r.Source,
			r.Type,
			strconv.FormatInt(int64(r.Pointer), 10),
			fmt.Sprintf("%g,%g", r.X, r.Y),
			r.Buttons.String(),
			r.Target,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("LINE", "AT", "SOURCE", "TYPE", "ID", "POS", "BUTTONS", "TARGET").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if !color || row < 0 || row >= len(records) {
				return cellStyle
			}
			switch records[row].Source {
			case SourceForward:
				return forwardStyle
			case SourceCursor:
				return cursorStyle
			}
			return gestureStyle
		})
	_, err := fmt.Fprintln(w, t.String())
	return err
}
