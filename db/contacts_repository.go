package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ListEmergencyNumbers returns the per-state emergency numbers with state and
// municipality upper-cased and whitespace removed from the phone. Rows with
// nothing left in them are skipped.
func ListEmergencyNumbers(ctx context.Context) ([]EmergencyNumber, error) {
	if DB == nil {
		return nil, ErrStorageUnavailable
	}

	rows, err := DB.QueryContext(ctx, `
		SELECT estado, municipio, CAST(numero AS TEXT)
		FROM numeros_emergencia_estado
		ORDER BY estado, municipio
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query emergency numbers: %w", err)
	}
	defer rows.Close()

	numbers := []EmergencyNumber{}
	for rows.Next() {
		var estado, municipio, numero sql.NullString
		if err := rows.Scan(&estado, &municipio, &numero); err != nil {
			return nil, fmt.Errorf("failed to scan emergency number: %w", err)
		}

		entry := EmergencyNumber{
			Estado:    strings.ToUpper(strings.TrimSpace(estado.String)),
			Municipio: strings.ToUpper(strings.TrimSpace(municipio.String)),
			Telefono:  stripWhitespace(numero.String),
		}

		if entry.Estado == "" && entry.Municipio == "" && entry.Telefono == "" {
			continue
		}
		numbers = append(numbers, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating emergency numbers: %w", err)
	}

	return numbers, nil
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// GetContact returns nil, nil when no contact has the given id.
func GetContact(ctx context.Context, id int64) (*Contact, error) {
	if DB == nil {
		return nil, ErrStorageUnavailable
	}

	query := fmt.Sprintf(`
		SELECT
			c.id,
			c.nombre,
			c.cargo,
			c.departamento,
			(SELECT %s FROM contacto_telefonos t WHERE t.contacto_id = c.id),
			(SELECT %s FROM contacto_correos e WHERE e.contacto_id = c.id)
		FROM contactos c
		WHERE c.id = $1
	`, aggregateDistinctText("t.telefono", ","), aggregateDistinctText("e.correo", ","))

	var contact Contact
	var telefonos, correos sql.NullString
	err := DB.QueryRowContext(ctx, query, id).Scan(
		&contact.ID,
		&contact.Nombre,
		&contact.Cargo,
		&contact.Departamento,
		&telefonos,
		&correos,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	contact.Telefonos = nullStringPtr(telefonos)
	contact.Correos = nullStringPtr(correos)

	return &contact, nil
}
