package utils

import (
	"bytes"
	"encoding/csv"
	"time"

	. "riskcheck/internal/models"
)

// WriteResultsCSV renders result detail rows as CSV with a header row.
func WriteResultsCSV(details []ResultDetail) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"id", "date", "worker_name", "worker_rut", "business_unit", "sub_area", "status"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, detail := range details {
		record := []string{
			detail.ID,
			detail.Date.Format(time.RFC3339),
			detail.WorkerName,
			detail.WorkerRut,
			detail.BusinessUnit,
			detail.SubArea,
			detail.Status,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
