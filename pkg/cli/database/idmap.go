/* Copyright 2025 Giftwise Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"database/sql"

	"github.com/pkg/errors"
)

// PutIDMapping records that the entity created under tempID is known to the
// remote as serverID
func PutIDMapping(db *DB, kind Kind, tempID, serverID string) error {
	if tempID == serverID {
		return nil
	}

	_, err := db.Exec(`INSERT INTO id_mappings (entity_type, temp_id, server_id) VALUES (?, ?, ?)
		ON CONFLICT (entity_type, temp_id) DO UPDATE SET server_id = excluded.server_id`, kind, tempID, serverID)
	if err != nil {
		return errors.Wrapf(err, "mapping %s %s to %s", kind, tempID, serverID)
	}

	return nil
}

// ResolveID returns the server id the given id is mapped to, or the id itself
// if it is not a mapped temporary id
func ResolveID(db *DB, kind Kind, id string) (string, error) {
	var serverID string
	err := db.QueryRow("SELECT server_id FROM id_mappings WHERE entity_type = ? AND temp_id = ?", kind, id).Scan(&serverID)
	if err == sql.ErrNoRows {
		return id, nil
	} else if err != nil {
		return "", errors.Wrapf(err, "resolving %s %s", kind, id)
	}

	return serverID, nil
}

// ResolveRefs returns a copy of the entity whose references are resolved
// through the id mappings
func ResolveRefs(db *DB, e Entity) (Entity, error) {
	for _, ref := range e.Refs() {
		id, err := ResolveID(db, ref.Kind, ref.ID)
		if err != nil {
			return nil, err
		}
		if id != ref.ID {
			e = e.RemapRef(ref.Kind, ref.ID, id)
		}
	}

	return e, nil
}

// ClearIDMappings removes every id mapping
func ClearIDMappings(db *DB) error {
	if _, err := db.Exec("DELETE FROM id_mappings"); err != nil {
		return errors.Wrap(err, "clearing id mappings")
	}

	return nil
}
