package db

import (
	"etix/src/config"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func GetDb() *gorm.DB {
	if db == nil {
		dsn := config.GetDSN()
		conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Panicf("Could not connect to database: %s\n", err.Error())
		}
		sqlDB, err := conn.DB()
		if err != nil {
			log.Panicf("Could not get database handle: %s\n", err.Error())
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		db = conn
	}
	return db
}

func NewDB(newDb *gorm.DB) {
	db = newDb
}
