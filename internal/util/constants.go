package util

const (
	DatabaseMySQL  = "mysql"
	DatabaseSQLite = "sqlite"
)
