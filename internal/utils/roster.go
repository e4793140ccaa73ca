package utils

import (
	"fmt"
	"strings"

	. "riskcheck/internal/models"
)

// Roster uploads arrive as loosely-keyed row maps straight out of a decoded
// spreadsheet. Column names vary per exporter, so each field accepts a set of
// aliases. Normalization happens exactly once, here; nothing downstream
// branches on spellings.
var rosterAliases = map[string][]string{
	"rut":          {"rut", "RUT", "Rut"},
	"name":         {"nombre", "NOMBRE", "Name", "Nombre"},
	"costCenter":   {"Centro de Costo", "centro_costo", "CC", "costCenter"},
	"businessUnit": {"Unidad de Negocio", "unidad_negocio", "UN", "businessUnit"},
	"subArea":      {"subarea", "SubArea", "Area"},
}

func rosterField(row map[string]any, field, fallback string) string {
	for _, alias := range rosterAliases[field] {
		if raw, ok := row[alias]; ok {
			value := strings.TrimSpace(fmt.Sprintf("%v", raw))
			if value != "" {
				return value
			}
		}
	}
	return fallback
}

// NormalizeRosterRows converts decoded spreadsheet rows into strict
// RosterRow records, applying placeholder values for missing fields.
func NormalizeRosterRows(rows []map[string]any) []RosterRow {
	normalized := make([]RosterRow, 0, len(rows))
	for _, row := range rows {
		normalized = append(normalized, RosterRow{
			Rut:          rosterField(row, "rut", PlaceholderRut),
			Name:         rosterField(row, "name", PlaceholderName),
			CostCenter:   rosterField(row, "costCenter", ""),
			BusinessUnit: rosterField(row, "businessUnit", ""),
			SubArea:      rosterField(row, "subArea", ""),
		})
	}
	return normalized
}
