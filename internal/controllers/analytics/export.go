package analyticsController

import (
	"context"
	"riskcheck/internal/utils"

	. "riskcheck/internal/models"
)

// ExportResultsCSV renders every real result matching the filters as CSV.
// Historical rows are excluded, consistent with the aggregate math, and the
// detail-listing row cap does not apply to exports.
func (c *AnalyticsController) ExportResultsCSV(
	ctx context.Context,
	filters AnalyticsFilters,
	scope Scope,
) ([]byte, error) {
	log := c.log.Function("ExportResultsCSV")

	rows, err := c.fetchRows(ctx, filters, scope)
	if err != nil {
		return nil, err
	}

	details := make([]ResultDetail, 0, len(rows))
	for _, row := range rows {
		if row.IsHistorical {
			continue
		}

		name := row.WorkerName
		if name == "" {
			name = PlaceholderName
		}

		details = append(details, ResultDetail{
			ID:           row.ID,
			Date:         row.ScheduledFor,
			WorkerName:   name,
			WorkerRut:    row.WorkerRut,
			BusinessUnit: row.BusinessUnit,
			SubArea:      row.SubArea,
			Status:       row.Status,
		})
	}

	payload, err := utils.WriteResultsCSV(details)
	if err != nil {
		return nil, log.Err("failed to render results CSV", err, "rows", len(details))
	}

	log.Info("results exported", "rows", len(details))
	return payload, nil
}
