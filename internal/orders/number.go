package orders

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// nextOrderNumber produces a human-readable order number like
// CS-20260901-0042 from a per-day counter row. The upsert keeps the counter
// monotonic under concurrent checkouts.
func nextOrderNumber(tx *gorm.DB, now time.Time) (string, error) {
	dayKey := now.Format("20060102")

	var seq int64
	err := tx.Raw(`
		INSERT INTO order_sequences (day_key, last_number)
		VALUES (?, 1)
		ON CONFLICT (day_key)
		DO UPDATE SET last_number = order_sequences.last_number + 1
		RETURNING last_number
	`, dayKey).Scan(&seq).Error
	if err != nil {
		return "", fmt.Errorf("next order number: %w", err)
	}

	return formatOrderNumber(dayKey, seq), nil
}

func formatOrderNumber(dayKey string, seq int64) string {
	return fmt.Sprintf("CS-%s-%04d", dayKey, seq)
}
