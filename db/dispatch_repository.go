package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const upsertDispatchQuery = `
	INSERT INTO seguimiento_despacho (
		folio, unidad, fecha_programada,
		operador_monitoreo, gps_estado, gps_timestamp,
		real_salida_unidad, real_carga, real_salida, real_descarga,
		confirmacion_entrega, estatus, observaciones
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (folio, unidad, fecha_programada) DO UPDATE SET
		operador_monitoreo = excluded.operador_monitoreo,
		gps_estado = excluded.gps_estado,
		gps_timestamp = excluded.gps_timestamp,
		real_salida_unidad = excluded.real_salida_unidad,
		real_carga = excluded.real_carga,
		real_salida = excluded.real_salida,
		real_descarga = excluded.real_descarga,
		confirmacion_entrega = excluded.confirmacion_entrega,
		estatus = excluded.estatus,
		observaciones = excluded.observaciones,
		revision = seguimiento_despacho.revision + 1,
		updated_at = CURRENT_TIMESTAMP
	RETURNING id, revision
`

// SaveDispatchRecord creates or overwrites the record identified by
// (folio, unidad, fecha programada) and replaces its incidents with the
// submitted list. Everything happens in one transaction.
func SaveDispatchRecord(ctx context.Context, submission DispatchSubmission) (*SaveResult, error) {
	folio := strings.TrimSpace(submission.Folio)
	unidad := strings.TrimSpace(submission.Unidad)
	fechaProgramada := NormalizeDate(submission.FechaProgramada)

	if folio == "" || unidad == "" || fechaProgramada == "" {
		return nil, newValidationError("Missing required fields: folio, unidad, fechaProgramada")
	}

	if DB == nil {
		return nil, ErrStorageUnavailable
	}

	tx, err := DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin transaction: %v", ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	var id int64
	var revision int
	err = tx.QueryRowContext(ctx, upsertDispatchQuery,
		folio,
		unidad,
		fechaProgramada,
		submission.OperadorMonitoreo,
		submission.GPSEstado,
		NormalizeDateTime(submission.GPSTimestamp),
		NormalizeDateTime(submission.RealSalidaUnidad),
		NormalizeDateTime(submission.RealCarga),
		NormalizeDateTime(submission.RealSalida),
		NormalizeDateTime(submission.RealDescarga),
		NormalizeOptionalText(submission.ConfirmacionEntrega),
		submission.Estatus,
		submission.Observaciones,
	).Scan(&id, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIdentityUnresolved
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upsert dispatch record: %w", err)
	}
	if id <= 0 {
		return nil, ErrIdentityUnresolved
	}

	if err := replaceIncidents(ctx, tx, id, submission.Incidencias); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit dispatch record: %w", err)
	}

	return &SaveResult{ID: id, Inserted: revision == 1}, nil
}

func replaceIncidents(ctx context.Context, tx *sql.Tx, dispatchID int64, incidents []IncidentSubmission) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM seguimiento_incidencias WHERE seguimiento_id = $1", dispatchID); err != nil {
		return fmt.Errorf("failed to delete existing incidents: %w", err)
	}

	if len(incidents) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO seguimiento_incidencias (seguimiento_id, tipo, severidad, fecha, direccion)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare incident insert: %w", err)
	}
	defer stmt.Close()

	for _, incident := range incidents {
		tipo := strings.TrimSpace(incident.Tipo)
		if tipo == "" {
			continue
		}

		_, err := stmt.ExecContext(ctx,
			dispatchID,
			tipo,
			incident.Severidad,
			NormalizeDateTime(incident.Fecha),
			incident.Direccion,
		)
		if err != nil {
			return fmt.Errorf("failed to insert incident: %w", err)
		}
	}

	return nil
}

func dispatchColumns() string {
	incidentEntry := "i.tipo || ' | ' || i.severidad || ' | ' || COALESCE(" +
		selectDateTime("i.fecha") + ", '') || ' | ' || COALESCE(i.direccion, '')"

	return fmt.Sprintf(`
		s.id, s.folio, s.unidad, %s,
		s.operador_monitoreo, s.gps_estado, %s,
		%s, %s, %s, %s,
		s.confirmacion_entrega, s.estatus, s.observaciones, s.revision,
		(SELECT %s FROM seguimiento_incidencias i WHERE i.seguimiento_id = s.id),
		%s, %s
	`,
		selectDate("s.fecha_programada"),
		selectDateTime("s.gps_timestamp"),
		selectDateTime("s.real_salida_unidad"),
		selectDateTime("s.real_carga"),
		selectDateTime("s.real_salida"),
		selectDateTime("s.real_descarga"),
		aggregateText(incidentEntry, ";;", "i.id"),
		selectDateTime("s.created_at"),
		selectDateTime("s.updated_at"),
	)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDispatchRecord(row rowScanner) (*DispatchRecord, error) {
	var record DispatchRecord
	var gpsTimestamp, realSalidaUnidad, realCarga, realSalida, realDescarga sql.NullString
	var confirmacion, incidencias sql.NullString

	err := row.Scan(
		&record.ID,
		&record.Folio,
		&record.Unidad,
		&record.FechaProgramada,
		&record.OperadorMonitoreo,
		&record.GPSEstado,
		&gpsTimestamp,
		&realSalidaUnidad,
		&realCarga,
		&realSalida,
		&realDescarga,
		&confirmacion,
		&record.Estatus,
		&record.Observaciones,
		&record.Revision,
		&incidencias,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.GPSTimestamp = nullStringPtr(gpsTimestamp)
	record.RealSalidaUnidad = nullStringPtr(realSalidaUnidad)
	record.RealCarga = nullStringPtr(realCarga)
	record.RealSalida = nullStringPtr(realSalida)
	record.RealDescarga = nullStringPtr(realDescarga)
	record.ConfirmacionEntrega = nullStringPtr(confirmacion)
	record.Incidencias = nullStringPtr(incidencias)

	return &record, nil
}

// ListDispatchRecords returns every record, newest scheduled date first and
// then by unit.
func ListDispatchRecords(ctx context.Context) ([]DispatchRecord, error) {
	if DB == nil {
		return nil, ErrStorageUnavailable
	}

	query := "SELECT " + dispatchColumns() + `
		FROM seguimiento_despacho s
		ORDER BY s.fecha_programada DESC, s.unidad ASC
	`

	rows, err := DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dispatch records: %w", err)
	}
	defer rows.Close()

	records := []DispatchRecord{}
	for rows.Next() {
		record, err := scanDispatchRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dispatch record: %w", err)
		}
		records = append(records, *record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dispatch records: %w", err)
	}

	return records, nil
}

// GetDispatchRecord returns nil, nil when no record has the given id.
func GetDispatchRecord(ctx context.Context, id int64) (*DispatchRecord, error) {
	if DB == nil {
		return nil, ErrStorageUnavailable
	}

	query := "SELECT " + dispatchColumns() + `
		FROM seguimiento_despacho s
		WHERE s.id = $1
	`

	record, err := scanDispatchRecord(DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dispatch record: %w", err)
	}

	return record, nil
}

func GetIncidents(ctx context.Context, dispatchID int64) ([]Incident, error) {
	if DB == nil {
		return nil, ErrStorageUnavailable
	}

	query := fmt.Sprintf(`
		SELECT id, tipo, severidad, %s, direccion
		FROM seguimiento_incidencias
		WHERE seguimiento_id = $1
		ORDER BY id
	`, selectDateTime("fecha"))

	rows, err := DB.QueryContext(ctx, query, dispatchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query incidents: %w", err)
	}
	defer rows.Close()

	incidents := []Incident{}
	for rows.Next() {
		var incident Incident
		var fecha sql.NullString
		if err := rows.Scan(&incident.ID, &incident.Tipo, &incident.Severidad, &fecha, &incident.Direccion); err != nil {
			return nil, fmt.Errorf("failed to scan incident: %w", err)
		}
		incident.Fecha = nullStringPtr(fecha)
		incidents = append(incidents, incident)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating incidents: %w", err)
	}

	return incidents, nil
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}
