package policy

import (
	"time"

	"github.com/meinhoongagan/feastbook/models"
)

// Actions is the set of operations a role may perform on a booking right now.
// Booking lists carry it so clients only render permitted buttons.
type Actions struct {
	Confirm  bool `json:"can_confirm"`
	Cancel   bool `json:"can_cancel"`
	Complete bool `json:"can_complete"`
	Review   bool `json:"can_review"`
}

func (p *Policy) Actions(b *models.Booking, role models.Role, now time.Time) Actions {
	switch role {
	case models.RoleSeller:
		return Actions{
			Confirm:  b.Status == models.StatusPending,
			Cancel:   b.Status == models.StatusPending || b.Status == models.StatusConfirmed,
			Complete: p.CanComplete(b, now),
		}
	case models.RoleCustomer:
		return Actions{
			Cancel:   p.CustomerCanCancel(b, now),
			Complete: p.CanComplete(b, now),
			Review:   CanReview(b),
		}
	}
	return Actions{}
}
