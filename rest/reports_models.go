package rest

import (
	"bytes"
	"despacho-api/db"
	"encoding/json"
	"strings"

	"github.com/spf13/cast"
)

type ReportRequest struct {
	Titulo            Text            `json:"titulo"`
	FechaDespacho     Text            `json:"fecha_despacho"`
	TotalDespachos    interface{}     `json:"total_despachos"`
	ATiempo           interface{}     `json:"a_tiempo"`
	ConRetraso        interface{}     `json:"con_retraso"`
	EnRuta            interface{}     `json:"en_ruta"`
	Programados       interface{}     `json:"programados"`
	TotalIncidencias  interface{}     `json:"total_incidencias"`
	DatosInforme      json.RawMessage `json:"datos_informe"`
	OperadorMonitoreo Text            `json:"operador_monitoreo"`
}

// toCounter reads a loosely typed integer. Numeric strings are accepted,
// fractions are truncated and anything unreadable counts as zero.
func toCounter(v interface{}) int {
	switch value := v.(type) {
	case nil:
		return 0
	case bool:
		if value {
			return 1
		}
		return 0
	case json.Number:
		v = value.String()
	}

	if s, ok := v.(string); ok {
		f, err := cast.ToFloat64E(strings.TrimSpace(s))
		if err != nil {
			return 0
		}
		return int(f)
	}

	n, err := cast.ToIntE(v)
	if err != nil {
		return 0
	}
	return n
}

// payload returns datos_informe as stored text. Objects and arrays are kept
// as compact JSON, strings are unquoted, empty containers count as missing.
func (r *ReportRequest) payload() string {
	raw := bytes.TrimSpace(r.DatosInforme)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{', '[':
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return ""
		}
		if compact.String() == "{}" || compact.String() == "[]" {
			return ""
		}
		return compact.String()
	case 'f':
		return ""
	default:
		return string(raw)
	}
}

func (r *ReportRequest) submission() db.ReportSubmission {
	return db.ReportSubmission{
		Titulo:            string(r.Titulo),
		FechaDespacho:     string(r.FechaDespacho),
		TotalDespachos:    toCounter(r.TotalDespachos),
		ATiempo:           toCounter(r.ATiempo),
		ConRetraso:        toCounter(r.ConRetraso),
		EnRuta:            toCounter(r.EnRuta),
		Programados:       toCounter(r.Programados),
		TotalIncidencias:  toCounter(r.TotalIncidencias),
		DatosInforme:      r.payload(),
		OperadorMonitoreo: string(r.OperadorMonitoreo),
	}
}

type ReportSaveResponse struct {
	SaveResponse
	FechaDespacho string `json:"fecha_despacho"`
}

type ReportSummaryResponse struct {
	ID                int64  `json:"id"`
	Titulo            string `json:"titulo"`
	FechaCreacion     string `json:"fecha_creacion"`
	FechaDespacho     string `json:"fecha_despacho"`
	TotalDespachos    int    `json:"total_despachos"`
	ATiempo           int    `json:"a_tiempo"`
	ConRetraso        int    `json:"con_retraso"`
	EnRuta            int    `json:"en_ruta"`
	Programados       int    `json:"programados"`
	TotalIncidencias  int    `json:"total_incidencias"`
	OperadorMonitoreo string `json:"operador_monitoreo"`
}

type ReportDetailResponse struct {
	ReportSummaryResponse
	DatosInforme        string          `json:"datos_informe"`
	DatosInformeDecoded json.RawMessage `json:"datos_informe_decoded,omitempty"`
}

type ReportListResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Data    []ReportSummaryResponse `json:"data"`
	Count   int                     `json:"count"`
}

type ReportDetailEnvelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Data    ReportDetailResponse `json:"data"`
}

func toReportSummaryResponse(r db.Report) ReportSummaryResponse {
	return ReportSummaryResponse{
		ID:                r.ID,
		Titulo:            r.Titulo,
		FechaCreacion:     r.FechaCreacion,
		FechaDespacho:     r.FechaDespacho,
		TotalDespachos:    r.TotalDespachos,
		ATiempo:           r.ATiempo,
		ConRetraso:        r.ConRetraso,
		EnRuta:            r.EnRuta,
		Programados:       r.Programados,
		TotalIncidencias:  r.TotalIncidencias,
		OperadorMonitoreo: r.OperadorMonitoreo,
	}
}
