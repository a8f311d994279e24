package boot

import (
	"log"
	"time"

	"etix/src/common"
	"etix/src/db"
	"etix/src/lib"
	"etix/src/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	d := db.GetDb()
	err := d.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Ticket{},
		&models.Booking{},
		&models.Reservation{},
	)
	if err != nil {
		log.Panicf("Error running migrations: %s\n", err.Error())
	}
	return d
}

func InitScheduler() {
	s := lib.GetScheduler()

	// Recover holds whose release jobs died with the last process.
	common.SweepExpiredHolds()

	if _, err := lib.CreateDurationJob(time.Minute, gocron.NewTask(common.SweepExpiredHolds)); err != nil {
		log.Printf("Could not schedule hold sweeper: %s\n", err.Error())
	}
	s.Start()
}
