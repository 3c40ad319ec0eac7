package rest

import (
	"despacho-api/db"

	"github.com/gofiber/fiber/v2"
)

func ListEmergencyNumbersHandler(c *fiber.Ctx) error {
	numbers, err := db.ListEmergencyNumbers(c.UserContext())
	if err != nil {
		return ReturnError(c, err, "Failed to retrieve emergency numbers")
	}

	data := make([]EmergencyNumberResponse, len(numbers))
	for i, n := range numbers {
		data[i] = EmergencyNumberResponse{
			Estado:    n.Estado,
			Municipio: n.Municipio,
			Tel:       n.Telefono,
		}
	}

	return c.JSON(EmergencyNumberListResponse{
		Success: true,
		Message: "Emergency numbers retrieved successfully",
		Data:    data,
		Count:   len(data),
	})
}

func GetContactHandler(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return ReturnBadRequest(c, "Invalid id")
	}

	contact, err := db.GetContact(c.UserContext(), id)
	if err != nil {
		return ReturnError(c, err, "Failed to retrieve contact")
	}
	if contact == nil {
		return ReturnNotFound(c, "Contact not found")
	}

	return c.JSON(ContactEnvelope{
		Success: true,
		Message: "Contact found",
		Data: ContactResponse{
			Nombre:       contact.Nombre,
			Cargo:        contact.Cargo,
			Departamento: contact.Departamento,
			Telefonos:    contact.Telefonos,
			Correos:      contact.Correos,
		},
	})
}
