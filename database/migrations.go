// Package database holds the SQL schema migrations compiled into the binary.
package database

import "embed"

//go:embed migration/*.sql
var Migrations embed.FS
