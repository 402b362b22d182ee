package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var db *sqlx.DB

func InitDB(cfg *Config) {
	var err error

	connStr := "host=" + cfg.PostgresHost + " port=" + cfg.PostgresPort +
		" user=" + cfg.PostgresUser + " password=" + cfg.PostgresPassword +
		" dbname=" + cfg.PostgresDB + " sslmode=disable"

	db, err = sqlx.Connect("postgres", connStr)
	if err != nil {
		log.Fatalln(err)
	}

	log.Println("Database connection established")
}

func GetDB() *sqlx.DB {
	return db
}
