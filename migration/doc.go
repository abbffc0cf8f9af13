/*
Package migration provides tooling necessary for working with schema versioned
entities. Functionality provided here can be applied both to messages and
models.

Schema version is declared per package. Each model and message carries a
Metadata with the schema version it was written with. Register migration
functions in the package init:

	func init() {
	    migration.MustRegister(1, &Record{}, migration.NoModification)
	}

Wrap the orm bucket with NewModelBucket, so that every model read or written
is first upgraded to the current schema version. A stored record that cannot
be decoded or declares a schema version higher than the current one is
reported with errors.ErrSchema. Such record is stale: it can be inspected and
removed through the raw record access of the orm bucket but never used.

Wrap message handlers with SchemaMigratingHandler to ensure all messages are
migrated to the latest schema before being passed to the handler.

Schema versions are bumped by the migration admin, configured in the genesis
"migration" configuration, using UpgradeSchemaMsg.
*/
package migration
