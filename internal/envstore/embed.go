//
//  Copyright © Stackport Inc. All rights reserved.
//

package envstore

import "embed"

// embedMigrations contains the embedded SQL migration files.
//
//go:embed migrations/*.sql
var embedMigrations embed.FS
