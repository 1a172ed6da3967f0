package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"eventfoundry-api/internal/common"
)

// CompetitiveIntelligence is the per-bid market snapshot stored as a single
// JSONB payload. The shortlisting fields are written when the bid enters the
// shortlist; the pricing fields are refreshed by every pricing recompute.
type CompetitiveIntelligence struct {
	// shortlisting snapshot
	Position          int     `json:"position"`
	PremiumPercentage float64 `json:"premium_percentage"`
	LowestBidAmount   string  `json:"lowest_bid_amount"`
	TotalShortlisted  int     `json:"total_shortlisted"`
	FinalDeadline     string  `json:"final_deadline"`
	Message           string  `json:"message"`

	// pricing snapshot
	LowestMarketPrice     string                     `json:"lowest_market_price,omitempty"`
	PercentageAboveLowest float64                    `json:"percentage_above_lowest"`
	CompetitivePosition   common.CompetitivePosition `json:"competitive_position,omitempty"`
	CalculatedAt          string                     `json:"calculated_at,omitempty"`
}

// Value implements driver.Valuer so the payload lands in a jsonb column.
func (ci CompetitiveIntelligence) Value() (driver.Value, error) {
	return json.Marshal(ci)
}

// Scan implements sql.Scanner for reads of the jsonb column.
func (ci *CompetitiveIntelligence) Scan(src interface{}) error {
	if src == nil {
		return nil
	}

	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, ci)
	case string:
		return json.Unmarshal([]byte(data), ci)
	}

	return errors.New("unsupported source type for competitive intelligence")
}
