package report

import "strings"

// leading characters a spreadsheet may interpret as a formula or control
// sequence when the exported CSV is opened directly.
const formulaLeads = "=+-@|%\t\r\n"

// EscapeCSVCell neutralizes formula injection by prefixing risky cells with
// a single quote.
func EscapeCSVCell(value string) string {
	if value == "" {
		return value
	}
	if strings.ContainsRune(formulaLeads, rune(value[0])) {
		return "'" + value
	}
	return value
}

// EscapeCSVRow escapes every cell in a row.
func EscapeCSVRow(row []string) []string {
	escaped := make([]string, len(row))
	for i, cell := range row {
		escaped[i] = EscapeCSVCell(cell)
	}
	return escaped
}

// EscapeCSVRows escapes every cell in every row.
func EscapeCSVRows(rows [][]string) [][]string {
	escaped := make([][]string, len(rows))
	for i, row := range rows {
		escaped[i] = EscapeCSVRow(row)
	}
	return escaped
}
