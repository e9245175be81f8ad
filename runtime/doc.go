// Package runtime holds the types the adapters generated by litegen run on.
//
// Generated adapters store models into ContentValues or bind them to a
// Statement, read them back from a Cursor, and build query conditions from
// the Property values of their table. The package level functions QuerySingle,
// Select, Count, Save and Delete drive an adapter against a Database, which is
// satisfied by *sql.DB and *sql.Tx.
//
//	db, _ := sql.Open("sqlite", "file:app.db")
//	if err := runtime.Migrate(db, store.Migrations()); err != nil {
//		return err
//	}
//	user := &models.User{Name: "ada"}
//	if err := runtime.Save[models.User](db, store.Users, user); err != nil {
//		return err
//	}
//	found, err := runtime.QuerySingle[models.User](db, store.Users,
//		runtime.Clause().And(store.UserTable.ID.Eq(user.ID)))
package runtime
