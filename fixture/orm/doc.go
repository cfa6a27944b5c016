// Package orm binds the "orm" fixture backend to GORM.
//
// Each named database.DB becomes a Manager. A fixture file's entries are
// inserted into one table inside a single transaction:
//
//	App\Entity\User:
//	  data:
//	    table: users          # default: GORM naming of the type name
//	    primary_key: id       # default: id, filled with a UUIDv7 when absent
//	    fixtures:
//	      admin: {name: Admin}
//
// Purging deletes every row of every table (or truncates where the dialect
// allows it) with foreign key checks suspended by the fixture Purger.
package orm
