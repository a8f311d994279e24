package common

import (
	"log"
	"time"

	"etix/src/db"
	"etix/src/models"
	"etix/src/types"

	"gorm.io/gorm"
)

// ActiveHolds sums the quantities of pending, unexpired holds on a ticket.
func ActiveHolds(tx *gorm.DB, ticketId uint) (uint, error) {
	var held uint
	err := tx.
		Model(&models.Reservation{}).
		Select("COALESCE(SUM(qty), 0)").
		Where("ticket_id = ? AND status = ? AND valid_until > ?", ticketId, types.RESERVATION_PENDING, time.Now()).
		Scan(&held).
		Error
	if err != nil {
		return 0, err
	}
	return held, nil
}

// ReleaseHold flips a still-pending hold back into the available pool. Runs as
// a one-time scheduled job when the hold window closes.
func ReleaseHold(reservationId uint) {
	d := db.GetDb()
	res := d.
		Model(&models.Reservation{}).
		Where("id = ? AND status = ?", reservationId, types.RESERVATION_PENDING).
		Update("status", types.RESERVATION_RELEASED)
	if res.Error != nil {
		log.Printf("Error releasing hold [%d]: %s\n", reservationId, res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Released hold [%d]\n", reservationId)
	}
}

// SweepExpiredHolds expires pending holds whose window has passed. Runs every
// minute and once at boot to recover holds whose release jobs died with the
// process.
func SweepExpiredHolds() {
	d := db.GetDb()
	res := d.
		Model(&models.Reservation{}).
		Where("status = ? AND valid_until < ?", types.RESERVATION_PENDING, time.Now()).
		Update("status", types.RESERVATION_EXPIRED)
	if res.Error != nil {
		log.Printf("Error sweeping expired holds: %s\n", res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Expired %d stale holds\n", res.RowsAffected)
	}
}
