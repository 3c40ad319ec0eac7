package rest

type EmergencyNumberResponse struct {
	Estado    string `json:"estado"`
	Municipio string `json:"municipio"`
	Tel       string `json:"tel"`
}

type EmergencyNumberListResponse struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message"`
	Data    []EmergencyNumberResponse `json:"data"`
	Count   int                       `json:"count"`
}

type ContactResponse struct {
	Nombre       string  `json:"nombre"`
	Cargo        string  `json:"cargo"`
	Departamento string  `json:"departamento"`
	Telefonos    *string `json:"telefonos"`
	Correos      *string `json:"correos"`
}

type ContactEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    ContactResponse `json:"data"`
}
