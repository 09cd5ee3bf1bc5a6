package ledger

import "fmt"

// SummaryLines genera las líneas "<código o vencimiento> x<cantidad>" que el cliente muestra
// como instrucción de picking.
func SummaryLines(picks PickList) []string {
	lines := make([]string, 0, len(picks))
	for _, p := range picks {
		lines = append(lines, fmt.Sprintf("%s x%d", p.Label, p.Quantity))
	}
	return lines
}
