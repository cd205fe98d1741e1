package dto

import (
	"time"

	"github.com/novacreations/nova-hr/internal/database/models"
)

// DateLayout is the wire format for bare dates.
const DateLayout = "2006-01-02"

type CreatePTORequest struct {
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
}

func (r CreatePTORequest) Validate() map[string]string {
	errors := make(map[string]string)

	if !models.PTOType(r.Type).Valid() {
		errors["type"] = "Type must be VACATION, SICK, or PERSONAL"
	}
	if _, err := time.Parse(DateLayout, r.StartDate); err != nil {
		errors["start_date"] = "Start date must be YYYY-MM-DD"
	}
	if _, err := time.Parse(DateLayout, r.EndDate); err != nil {
		errors["end_date"] = "End date must be YYYY-MM-DD"
	}

	return errors
}

// ReviewPTORequest covers approve, deny, and revoke. Notes are optional for
// approve; deny and revoke enforce a reason in the service.
type ReviewPTORequest struct {
	Notes string `json:"notes,omitempty"`
}
