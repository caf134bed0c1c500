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

package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/giftwise/giftwise/pkg/assert"
)

func TestDebug(t *testing.T) {
	testCases := []struct {
		env      string
		expected bool
	}{
		{env: "1", expected: true},
		{env: "", expected: false},
		{env: "true", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.env, func(t *testing.T) {
			t.Setenv(debugEnvName, tc.env)

			var buf bytes.Buffer
			restore := SetOutput(&buf)
			defer restore()

			Debug("draining %d actions\n", 2)

			assert.Equal(t, strings.Contains(buf.String(), "draining 2 actions"), tc.expected, "debug output mismatch")
		})
	}
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)

	Infof("synced %d\n", 3)
	restore()
	Infof("not captured\n")

	assert.Equal(t, strings.Contains(buf.String(), "synced 3"), true, "message missing")
	assert.Equal(t, strings.Contains(buf.String(), "not captured"), false, "message leaked after restore")
}
