package db

// DispatchSubmission is a dispatch tracking record as submitted by a
// client, before normalization.
type DispatchSubmission struct {
	Folio               string
	Unidad              string
	FechaProgramada     string
	OperadorMonitoreo   string
	GPSEstado           string
	GPSTimestamp        string
	RealSalidaUnidad    string
	RealCarga           string
	RealSalida          string
	RealDescarga        string
	ConfirmacionEntrega *string
	Estatus             string
	Observaciones       string
	Incidencias         []IncidentSubmission
}

type IncidentSubmission struct {
	Tipo      string
	Severidad string
	Fecha     string
	Direccion string
}

// SaveResult reports the id of the written row and whether it was created.
type SaveResult struct {
	ID       int64
	Inserted bool
}

// DispatchRecord is one stored seguimiento row. Incidencias holds every
// incident collapsed into "tipo | severidad | fecha | direccion" entries
// joined by ";;", or nil when there are none.
type DispatchRecord struct {
	ID                  int64
	Folio               string
	Unidad              string
	FechaProgramada     string
	OperadorMonitoreo   string
	GPSEstado           string
	GPSTimestamp        *string
	RealSalidaUnidad    *string
	RealCarga           *string
	RealSalida          *string
	RealDescarga        *string
	ConfirmacionEntrega *string
	Estatus             string
	Observaciones       string
	Revision            int
	Incidencias         *string
	CreatedAt           string
	UpdatedAt           string
}

type Incident struct {
	ID        int64
	Tipo      string
	Severidad string
	Fecha     *string
	Direccion string
}

type ReportSubmission struct {
	Titulo            string
	FechaDespacho     string
	TotalDespachos    int
	ATiempo           int
	ConRetraso        int
	EnRuta            int
	Programados       int
	TotalIncidencias  int
	DatosInforme      string
	OperadorMonitoreo string
}

type Report struct {
	ID                int64
	Titulo            string
	FechaCreacion     string
	FechaDespacho     string
	TotalDespachos    int
	ATiempo           int
	ConRetraso        int
	EnRuta            int
	Programados       int
	TotalIncidencias  int
	DatosInforme      string
	OperadorMonitoreo string
}

type EmergencyNumber struct {
	Estado    string
	Municipio string
	Telefono  string
}

type Contact struct {
	ID           int64
	Nombre       string
	Cargo        string
	Departamento string
	Telefonos    *string
	Correos      *string
}
