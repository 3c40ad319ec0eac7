package rest

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SaveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
	Action  string `json:"action"`
}

func saveAction(inserted bool) string {
	if inserted {
		return "inserted"
	}
	return "updated"
}
