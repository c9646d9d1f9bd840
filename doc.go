// Package typepick provides a fluent SQL statement builder with column-level
// encryption transforms.
//
// A Builder accumulates query intent through chained calls, compiles it into a
// statement with named parameters and a matching binding map, and runs it inside
// a single transaction. Values never reach the SQL text; identifiers are
// validated and keys are written as hex literals.
//
// # Quick Start
//
//	db, err := typepick.Connect("mysql", "user:pass@tcp(localhost:3306)/dbname",
//	    typepick.WithDefaultKey(os.Getenv("APP_KEY")))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	qb := db.Builder()
//
// # Select Queries
//
//	res, err := qb.In("users").
//	    Select("id", "name").
//	    Where("id", "=", 5).
//	    And("name", "=", "bob").
//	    Execute(ctx, typepick.FetchAssoc)
//	// SELECT id, name FROM users WHERE id = :id1 AND name = :name1
//
//	res, err = qb.In("users").
//	    SelectAll().
//	    Where("age", ">", 18).
//	    OrderBy(typepick.Desc("created_at")).
//	    Limit(10).
//	    Execute(ctx)
//
// # Insert, Update, Delete
//
//	res, err := qb.In("users").
//	    Insert(typepick.P("username", "test1"), typepick.P("email", "email@test.com")).
//	    Execute(ctx)
//	// res.InsertID
//
//	res, err = qb.In("users").
//	    Update(typepick.P("status", "inactive")).
//	    Where("id", "=", 1).
//	    Execute(ctx)
//	// res.Affected
//
// # Column Transforms
//
// Encrypt applies to INSERT/UPDATE values; Decrypt applies to SELECT columns and
// WHERE parameters:
//
//	qb.In("users").
//	    Update(typepick.P("name", "x")).
//	    Encrypt(map[string]typepick.Transform{"name": typepick.Base64(typepick.UseNone)})
//	// UPDATE users SET name = TO_BASE64(:name)
//
//	qb.In("users").
//	    Select("email").
//	    Decrypt(map[string]typepick.Transform{"email": typepick.AES("", typepick.UseBase64)})
//	// SELECT AES_DECRYPT(FROM_BASE64(email), X'…') AS email FROM users
//
// An AES transform with an empty key uses the key set with WithDefaultKey or
// Config.DefaultKey; the raw key is always reduced to 32 bytes with SHA-256.
//
// # Errors
//
// Configuration calls never fail; they record messages that Execute returns as a
// *ConfigurationError before any SQL runs. Driver failures are returned as
// *DriverError carrying the driver's own error code. Execute always resets the
// builder.
//
// # Thread Safety
//
// DB is safe for concurrent use. Builder instances are not; create one per
// goroutine or use Clone.
//
// # Supported Databases
//
//   - MySQL / MariaDB (SQL generation target)
//   - PostgreSQL and SQLite as transports for statements without MySQL-only functions
package typepick
