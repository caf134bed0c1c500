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

// Package consts provides definitions of constants
package consts

var (
	// AppDirName is the name of the directory containing giftwise files
	AppDirName = "giftwise"
	// DBFileName is a filename for the Giftwise SQLite database
	DBFileName = "giftwise.db"
	// ConfigFilename is the name of the config file
	ConfigFilename = "giftwiserc"

	// SystemSessionKey is the session key
	SystemSessionKey = "session_token"
	// SystemOwnerID is the id of the account whose data is stored locally
	SystemOwnerID = "owner_id"
	// SystemLastReconcileAt is the unix timestamp of the last successful reconciliation
	SystemLastReconcileAt = "last_reconcile_at"
)
