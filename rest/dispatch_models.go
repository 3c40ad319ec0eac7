package rest

import (
	"bytes"
	"despacho-api/db"
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
)

// Text is a scalar request field. Strings are taken as is, numbers keep
// their literal digits, true becomes "1" and false or null become "".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var v interface{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&v); err != nil {
		return err
	}

	switch value := v.(type) {
	case nil:
		*t = ""
	case bool:
		if value {
			*t = "1"
		} else {
			*t = ""
		}
	case map[string]interface{}, []interface{}:
		return fmt.Errorf("expected a scalar value, got %s", data)
	default:
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}
		*t = Text(s)
	}
	return nil
}

func (t *Text) pointer() *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

type IncidentRequest struct {
	Tipo      Text `json:"tipo"`
	Severidad Text `json:"severidad"`
	Fecha     Text `json:"fecha"`
	Direccion Text `json:"direccion"`
}

type DispatchRequest struct {
	Folio                  Text            `json:"folio"`
	Unidad                 Text            `json:"unidad"`
	FechaProgramada        Text            `json:"fechaProgramada"`
	OperadorMonitoreoID    Text            `json:"operadorMonitoreoId"`
	GPSValidacionEstado    Text            `json:"gpsValidacionEstado"`
	GPSValidacionTimestamp Text            `json:"gpsValidacionTimestamp"`
	RealSalidaUnidad       Text            `json:"realSalidaUnidad"`
	RealCarga              Text            `json:"realCarga"`
	RealSalida             Text            `json:"realSalida"`
	RealDescarga           Text            `json:"realDescarga"`
	ConfirmacionEntrega    *Text           `json:"confirmacionEntrega"`
	Estatus                Text            `json:"estatus"`
	Observaciones          Text            `json:"observaciones"`
	Incidencias            json.RawMessage `json:"incidencias"`
}

// incidents reads the incident list leniently: anything other than an array
// counts as no incidents and entries that are not objects are skipped.
func (r *DispatchRequest) incidents() []db.IncidentSubmission {
	var items []json.RawMessage
	if err := json.Unmarshal(r.Incidencias, &items); err != nil {
		return nil
	}

	incidents := make([]db.IncidentSubmission, 0, len(items))
	for _, item := range items {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue
		}

		var inc IncidentRequest
		if err := json.Unmarshal(trimmed, &inc); err != nil {
			continue
		}

		incidents = append(incidents, db.IncidentSubmission{
			Tipo:      string(inc.Tipo),
			Severidad: string(inc.Severidad),
			Fecha:     string(inc.Fecha),
			Direccion: string(inc.Direccion),
		})
	}
	return incidents
}

func (r *DispatchRequest) submission() db.DispatchSubmission {
	return db.DispatchSubmission{
		Folio:               string(r.Folio),
		Unidad:              string(r.Unidad),
		FechaProgramada:     string(r.FechaProgramada),
		OperadorMonitoreo:   string(r.OperadorMonitoreoID),
		GPSEstado:           string(r.GPSValidacionEstado),
		GPSTimestamp:        string(r.GPSValidacionTimestamp),
		RealSalidaUnidad:    string(r.RealSalidaUnidad),
		RealCarga:           string(r.RealCarga),
		RealSalida:          string(r.RealSalida),
		RealDescarga:        string(r.RealDescarga),
		ConfirmacionEntrega: r.ConfirmacionEntrega.pointer(),
		Estatus:             string(r.Estatus),
		Observaciones:       string(r.Observaciones),
		Incidencias:         r.incidents(),
	}
}

type DispatchRecordResponse struct {
	ID                  int64   `json:"id"`
	Folio               string  `json:"folio"`
	Unidad              string  `json:"unidad"`
	FechaProgramada     string  `json:"fecha_programada"`
	OperadorMonitoreo   string  `json:"operador_monitoreo"`
	GPSEstado           string  `json:"gps_estado"`
	GPSTimestamp        *string `json:"gps_timestamp"`
	RealSalidaUnidad    *string `json:"real_salida_unidad"`
	RealCarga           *string `json:"real_carga"`
	RealSalida          *string `json:"real_salida"`
	RealDescarga        *string `json:"real_descarga"`
	ConfirmacionEntrega *string `json:"confirmacion_entrega"`
	Estatus             string  `json:"estatus"`
	Observaciones       string  `json:"observaciones"`
	Incidencias         *string `json:"incidencias"`
}

type IncidentResponse struct {
	ID        int64   `json:"id"`
	Tipo      string  `json:"tipo"`
	Severidad string  `json:"severidad"`
	Fecha     *string `json:"fecha"`
	Direccion string  `json:"direccion"`
}

type DispatchDetailResponse struct {
	DispatchRecordResponse
	Revision           int                `json:"revision"`
	CreatedAt          string             `json:"created_at"`
	UpdatedAt          string             `json:"updated_at"`
	IncidenciasDetalle []IncidentResponse `json:"incidencias_detalle"`
}

type DispatchListResponse struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message"`
	Data    []DispatchRecordResponse `json:"data"`
	Count   int                      `json:"count"`
}

type DispatchDetailEnvelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    DispatchDetailResponse `json:"data"`
}

func toDispatchRecordResponse(r db.DispatchRecord) DispatchRecordResponse {
	return DispatchRecordResponse{
		ID:                  r.ID,
		Folio:               r.Folio,
		Unidad:              r.Unidad,
		FechaProgramada:     r.FechaProgramada,
		OperadorMonitoreo:   r.OperadorMonitoreo,
		GPSEstado:           r.GPSEstado,
		GPSTimestamp:        r.GPSTimestamp,
		RealSalidaUnidad:    r.RealSalidaUnidad,
		RealCarga:           r.RealCarga,
		RealSalida:          r.RealSalida,
		RealDescarga:        r.RealDescarga,
		ConfirmacionEntrega: r.ConfirmacionEntrega,
		Estatus:             r.Estatus,
		Observaciones:       r.Observaciones,
		Incidencias:         r.Incidencias,
	}
}
