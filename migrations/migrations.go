// Package migrations embeds the SQL schema migrations for the delivery
// record store. Apply them with db.Migrate before using the Postgres store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
