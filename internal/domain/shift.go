package domain

import "time"

// ShiftEntry 是解析或手动录入后、尚未持久化的班次
type ShiftEntry struct {
	Date          string  `json:"date"`          // YYYY-MM-DD
	ArrivalTime   string  `json:"arrivalTime"`   // HH:MM（24 小时制）
	DepartureTime string  `json:"departureTime"` // HH:MM（24 小时制）
	HoursWorked   float64 `json:"hoursWorked"`
	Description   string  `json:"description"`
}

type Shift struct {
	ID               int64     `json:"id"`
	OwnerID          int64     `json:"ownerID"`
	OwnerDisplayName string    `json:"ownerDisplayName"`
	TeamID           int64     `json:"teamID"`
	Date             string    `json:"date"`
	ArrivalTime      string    `json:"arrivalTime"`
	DepartureTime    string    `json:"departureTime"`
	HoursWorked      float64   `json:"hoursWorked"`
	Description      string    `json:"description"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (s *Shift) Entry() ShiftEntry {
	return ShiftEntry{
		Date:          s.Date,
		ArrivalTime:   s.ArrivalTime,
		DepartureTime: s.DepartureTime,
		HoursWorked:   s.HoursWorked,
		Description:   s.Description,
	}
}
