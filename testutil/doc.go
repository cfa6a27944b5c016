// Package testutil provides throwaway backing stores for seedkit tests.
//
// SQLite and Redis test components implement component.Component plus
// Reset, so they plug into the same registry as production components
// and can be emptied between cases:
//
//	func TestLoad(t *testing.T) {
//	    db := testutil.NewSQLite(t, `CREATE TABLE users (id TEXT PRIMARY KEY)`)
//	    client, _ := testutil.NewRedis(t)
//	    // both are stopped when the test ends
//	}
//
// Managing several components together:
//
//	manager := testutil.NewManager(ctx)
//	manager.Add(sqliteComponent)
//	manager.Add(redisComponent)
//	manager.StartAll()
//	defer manager.Cleanup()
package testutil
