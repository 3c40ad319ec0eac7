package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const defaultReportOperator = "Desconocido"

var (
	isoDatePattern       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dayFirstDatePattern  = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)
	dayFirstShortPattern = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{2})$`)
)

// NormalizeDispatchDate resolves the fecha_despacho of a report. A blank
// value means today; DD-MM-YYYY and DD-MM-YY are rewritten as YYYY-MM-DD.
func NormalizeDispatchDate(value string, now time.Time) (string, error) {
	s := strings.TrimSpace(value)

	var candidate string
	switch {
	case s == "":
		return now.Format(dateLayout), nil
	case isoDatePattern.MatchString(s):
		candidate = s
	case dayFirstDatePattern.MatchString(s):
		m := dayFirstDatePattern.FindStringSubmatch(s)
		candidate = m[3] + "-" + m[2] + "-" + m[1]
	case dayFirstShortPattern.MatchString(s):
		m := dayFirstShortPattern.FindStringSubmatch(s)
		candidate = "20" + m[3] + "-" + m[2] + "-" + m[1]
	default:
		return "", newValidationError("Invalid fecha_despacho format. Use YYYY-MM-DD or DD-MM-YYYY")
	}

	if _, err := time.Parse(dateLayout, candidate); err != nil {
		return "", newValidationError("Invalid fecha_despacho: " + s)
	}

	return candidate, nil
}

// SaveReport stores a dashboard report. A report already saved for the same
// dispatch date is overwritten, the most recent one when there are several.
func SaveReport(ctx context.Context, submission ReportSubmission) (*SaveResult, error) {
	titulo := strings.TrimSpace(submission.Titulo)
	if titulo == "" || strings.TrimSpace(submission.DatosInforme) == "" {
		return nil, newValidationError("Missing required fields: titulo and datos_informe")
	}

	fechaDespacho, err := NormalizeDispatchDate(submission.FechaDespacho, time.Now())
	if err != nil {
		return nil, err
	}

	operador := strings.TrimSpace(submission.OperadorMonitoreo)
	if operador == "" {
		operador = defaultReportOperator
	}

	if DB == nil {
		return nil, ErrStorageUnavailable
	}

	tx, err := DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin transaction: %v", ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	var existingID int64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM informes_guardados WHERE fecha_despacho = $1 ORDER BY id DESC LIMIT 1",
		fechaDespacho,
	).Scan(&existingID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up report: %w", err)
	}

	result := &SaveResult{}
	if existingID > 0 {
		_, err = tx.ExecContext(ctx, `
			UPDATE informes_guardados
			SET titulo = $1, total_despachos = $2, a_tiempo = $3, con_retraso = $4, en_ruta = $5,
				programados = $6, total_incidencias = $7, datos_informe = $8, operador_monitoreo = $9
			WHERE id = $10
		`,
			titulo,
			submission.TotalDespachos,
			submission.ATiempo,
			submission.ConRetraso,
			submission.EnRuta,
			submission.Programados,
			submission.TotalIncidencias,
			submission.DatosInforme,
			operador,
			existingID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update report: %w", err)
		}
		result.ID = existingID
	} else {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO informes_guardados (
				titulo, fecha_despacho, total_despachos, a_tiempo, con_retraso, en_ruta,
				programados, total_incidencias, datos_informe, operador_monitoreo
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`,
			titulo,
			fechaDespacho,
			submission.TotalDespachos,
			submission.ATiempo,
			submission.ConRetraso,
			submission.EnRuta,
			submission.Programados,
			submission.TotalIncidencias,
			submission.DatosInforme,
			operador,
		).Scan(&result.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert report: %w", err)
		}
		result.Inserted = true
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit report: %w", err)
	}

	return result, nil
}

func reportColumns(withPayload bool) string {
	columns := fmt.Sprintf(`
		id, titulo, %s, %s, total_despachos, a_tiempo, con_retraso, en_ruta,
		programados, total_incidencias, operador_monitoreo
	`, selectDateTime("fecha_creacion"), selectDate("fecha_despacho"))

	if withPayload {
		columns += ", datos_informe"
	}
	return columns
}

// ListReports returns the 100 most recently created reports without their
// payload.
func ListReports(ctx context.Context) ([]Report, error) {
	if DB == nil {
		return nil, ErrStorageUnavailable
	}

	query := "SELECT " + reportColumns(false) + `
		FROM informes_guardados
		ORDER BY fecha_creacion DESC, id DESC
		LIMIT 100
	`

	rows, err := DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	reports := []Report{}
	for rows.Next() {
		var r Report
		err := rows.Scan(
			&r.ID,
			&r.Titulo,
			&r.FechaCreacion,
			&r.FechaDespacho,
			&r.TotalDespachos,
			&r.ATiempo,
			&r.ConRetraso,
			&r.EnRuta,
			&r.Programados,
			&r.TotalIncidencias,
			&r.OperadorMonitoreo,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}

// GetReport returns nil, nil when no report has the given id.
func GetReport(ctx context.Context, id int64) (*Report, error) {
	if DB == nil {
		return nil, ErrStorageUnavailable
	}

	query := "SELECT " + reportColumns(true) + " FROM informes_guardados WHERE id = $1"

	var r Report
	err := DB.QueryRowContext(ctx, query, id).Scan(
		&r.ID,
		&r.Titulo,
		&r.FechaCreacion,
		&r.FechaDespacho,
		&r.TotalDespachos,
		&r.ATiempo,
		&r.ConRetraso,
		&r.EnRuta,
		&r.Programados,
		&r.TotalIncidencias,
		&r.OperadorMonitoreo,
		&r.DatosInforme,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return &r, nil
}

// DeleteReport returns ErrNotFound when no report has the given id.
func DeleteReport(ctx context.Context, id int64) error {
	if DB == nil {
		return ErrStorageUnavailable
	}

	result, err := DB.ExecContext(ctx, "DELETE FROM informes_guardados WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
