package entity

import "time"

// VerificationStats is a snapshot of the aggregate accuracy over every prediction.
// Each verification run appends a fresh row; nothing patches an old one.
type VerificationStats struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	TotalPredictions int  `gorm:"not null;default:0" json:"total_predictions"`

	Verified1DCount int      `gorm:"column:verified_1d_count;not null;default:0" json:"verified_1d"`
	Correct1DCount  int      `gorm:"column:correct_1d_count;not null;default:0" json:"correct_1d"`
	Accuracy1D      *float64 `gorm:"column:accuracy_1d" json:"accuracy_1d"`
	AvgReturn1D     *float64 `gorm:"column:avg_return_1d" json:"avg_return_1d"`

	Verified7DCount int      `gorm:"column:verified_7d_count;not null;default:0" json:"verified_7d"`
	Correct7DCount  int      `gorm:"column:correct_7d_count;not null;default:0" json:"correct_7d"`
	Accuracy7D      *float64 `gorm:"column:accuracy_7d" json:"accuracy_7d"`
	AvgReturn7D     *float64 `gorm:"column:avg_return_7d" json:"avg_return_7d"`

	Verified30DCount int      `gorm:"column:verified_30d_count;not null;default:0" json:"verified_30d"`
	Correct30DCount  int      `gorm:"column:correct_30d_count;not null;default:0" json:"correct_30d"`
	Accuracy30D      *float64 `gorm:"column:accuracy_30d" json:"accuracy_30d"`
	AvgReturn30D     *float64 `gorm:"column:avg_return_30d" json:"avg_return_30d"`

	HypotheticalReturnTotal *float64 `json:"hypothetical_return_total"`

	IsUnlocked   bool      `gorm:"not null;default:false" json:"is_unlocked"`
	UnlockReason string    `gorm:"type:varchar(255)" json:"unlock_reason"`
	CalculatedAt time.Time `gorm:"not null;index" json:"last_updated"`
}

func (VerificationStats) TableName() string {
	return "verification_stats"
}

// VerifiedCount returns the verified count for h.
func (s *VerificationStats) VerifiedCount(h Horizon) int {
	switch h {
	case Horizon1D:
		return s.Verified1DCount
	case Horizon7D:
		return s.Verified7DCount
	case Horizon30D:
		return s.Verified30DCount
	}
	return 0
}

// Accuracy returns the accuracy for h, nil when nothing is verified.
func (s *VerificationStats) Accuracy(h Horizon) *float64 {
	switch h {
	case Horizon1D:
		return s.Accuracy1D
	case Horizon7D:
		return s.Accuracy7D
	case Horizon30D:
		return s.Accuracy30D
	}
	return nil
}
