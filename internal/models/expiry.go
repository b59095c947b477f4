package models

import "fmt"

// ExpiryStatus buckets a product by how close it is to its expiry date.
type ExpiryStatus string

const (
	ExpiryUnknown ExpiryStatus = "unknown"
	ExpiryExpired ExpiryStatus = "expired"
	ExpiryUrgent  ExpiryStatus = "urgent"
	ExpirySoon    ExpiryStatus = "soon"
	ExpiryFresh   ExpiryStatus = "fresh"
)

// ReminderDays lists the days-before-expiry on which a reminder is sent.
var ReminderDays = []int{5, 3, 1}

// ExpiryStatusOf classifies exp relative to today.
func ExpiryStatusOf(exp, today Date) ExpiryStatus {
	if exp.IsZero() {
		return ExpiryUnknown
	}
	switch days := today.DaysUntil(exp); {
	case days < 0:
		return ExpiryExpired
	case days <= 3:
		return ExpiryUrgent
	case days <= 10:
		return ExpirySoon
	default:
		return ExpiryFresh
	}
}

// ExpiryReminder is emitted when a product is a reminder-day away from expiring.
type ExpiryReminder struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	ExpDate   Date   `json:"expDate"`
	DaysLeft  int    `json:"daysLeft"`
	Message   string `json:"message"`
}

// ReminderFor returns the reminder due for p on today, if any.
func ReminderFor(p Product, today Date) (ExpiryReminder, bool) {
	if p.ExpDate.IsZero() {
		return ExpiryReminder{}, false
	}
	days := today.DaysUntil(p.ExpDate)
	for _, d := range ReminderDays {
		if d != days {
			continue
		}
		msg := fmt.Sprintf("%s expires in %d days", p.Name, days)
		if days == 1 {
			msg = fmt.Sprintf("%s expires tomorrow!", p.Name)
		}
		return ExpiryReminder{
			ProductID: p.ID,
			Name:      p.Name,
			ExpDate:   p.ExpDate,
			DaysLeft:  days,
			Message:   msg,
		}, true
	}
	return ExpiryReminder{}, false
}
