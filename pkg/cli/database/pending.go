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
	"github.com/pkg/errors"
)

// ActionType is the type of a pending action
type ActionType string

const (
	// ActionCreate is an action to create an entity on the remote
	ActionCreate ActionType = "CREATE"
	// ActionUpdate is an action to update an entity on the remote
	ActionUpdate ActionType = "UPDATE"
	// ActionDelete is an action to delete an entity on the remote
	ActionDelete ActionType = "DELETE"
)

// PendingAction is a mutation applied locally that has not reached the remote yet
type PendingAction struct {
	ID         int64
	ActionType ActionType
	EntityType Kind
	EntityID   string
	// Payload is the serialized entity. It is empty for deletes.
	Payload    string
	Timestamp  int64
	RetryCount int
}

// AppendAction durably appends the action to the log and returns its id
func AppendAction(db *DB, a PendingAction) (int64, error) {
	res, err := db.Exec(`INSERT INTO pending_sync_actions
		(action_type, entity_type, entity_id, payload, timestamp, retry_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ActionType, a.EntityType, a.EntityID, a.Payload, a.Timestamp, a.RetryCount)
	if err != nil {
		return 0, errors.Wrapf(err, "appending %s %s action", a.ActionType, a.EntityType)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "getting the id of the appended action")
	}

	return id, nil
}

// ListActions returns every pending action in the order it was appended
func ListActions(db *DB) ([]PendingAction, error) {
	rows, err := db.Query(`SELECT id, action_type, entity_type, entity_id, payload, timestamp, retry_count
		FROM pending_sync_actions
		ORDER BY timestamp ASC, id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying pending actions")
	}
	defer rows.Close()

	ret := []PendingAction{}
	for rows.Next() {
		var a PendingAction
		if err := rows.Scan(&a.ID, &a.ActionType, &a.EntityType, &a.EntityID, &a.Payload, &a.Timestamp, &a.RetryCount); err != nil {
			return nil, errors.Wrap(err, "scanning a pending action")
		}

		ret = append(ret, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating pending actions")
	}

	return ret, nil
}

// IncrementRetryCount increments the retry count of the action by one
func IncrementRetryCount(db *DB, id int64) error {
	if _, err := db.Exec("UPDATE pending_sync_actions SET retry_count = retry_count + 1 WHERE id = ?", id); err != nil {
		return errors.Wrapf(err, "incrementing the retry count of action %d", id)
	}

	return nil
}

// RemoveAction removes the action from the log
func RemoveAction(db *DB, id int64) error {
	if _, err := db.Exec("DELETE FROM pending_sync_actions WHERE id = ?", id); err != nil {
		return errors.Wrapf(err, "removing action %d", id)
	}

	return nil
}

// CountActions returns the number of pending actions
func CountActions(db *DB) (int, error) {
	var count int
	if err := db.QueryRow("SELECT count(*) FROM pending_sync_actions").Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting pending actions")
	}

	return count, nil
}

// HasPendingFor reports whether any action is queued for the entity
func HasPendingFor(db *DB, kind Kind, id string) (bool, error) {
	var count int
	if err := db.QueryRow("SELECT count(*) FROM pending_sync_actions WHERE entity_type = ? AND entity_id = ?", kind, id).Scan(&count); err != nil {
		return false, errors.Wrapf(err, "counting actions for %s %s", kind, id)
	}

	return count > 0, nil
}

// PendingIDs returns the ids of the entities of the given kind that have a
// queued action of the given type
func PendingIDs(db *DB, kind Kind, actionType ActionType) (map[string]bool, error) {
	rows, err := db.Query("SELECT DISTINCT entity_id FROM pending_sync_actions WHERE entity_type = ? AND action_type = ?", kind, actionType)
	if err != nil {
		return nil, errors.Wrapf(err, "querying pending %s actions for %s", actionType, kind)
	}
	defer rows.Close()

	ret := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scanning an entity id")
		}

		ret[id] = true
	}

	return ret, rows.Err()
}
