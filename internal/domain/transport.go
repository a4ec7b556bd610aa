package domain

import (
	"fmt"
	"time"
)

// RateTable holds per-day prices in whole currency units, one per duration
// bracket.
type RateTable struct {
	Base           int64 `json:"price_per_day"`
	ThreeToSixDays int64 `json:"price_3_6_days"`
	SevenTo29Days  int64 `json:"price_7_29_days"`
	ThirtyPlusDays int64 `json:"price_30_plus_days"`
}

type Transport struct {
	ID                 int32     `json:"id"`
	Number             *int32    `json:"number,omitempty"`
	Name               string    `json:"name"`
	Model              string    `json:"model"`
	Year               int       `json:"year"`
	Color              string    `json:"color"`
	RegistrationNumber string    `json:"registration_number"`
	VINNumber          string    `json:"vin_number"`
	City               string    `json:"city"`
	Rates              RateTable `json:"rates"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Description is the human readable vehicle label used in documents.
func (t *Transport) Description() string {
	return fmt.Sprintf("%s %s", t.Name, t.Model)
}
