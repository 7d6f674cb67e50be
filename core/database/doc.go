// Package database handles the MySQL connection for the sync engine.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to
// configure the connection, pool limits, and timeouts based on the
// application's configuration.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
