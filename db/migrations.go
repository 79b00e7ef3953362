package db

import "embed"

// Migrations holds the versioned schema applied on startup.
//
//go:embed migrations/*.sql
var Migrations embed.FS
