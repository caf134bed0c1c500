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
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/giftwise/giftwise/pkg/assert"
	"github.com/pkg/errors"
)

func capture(t *testing.T, level string) *bytes.Buffer {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	prevLevel := Level()
	SetLevel(level)

	t.Cleanup(func() {
		restore()
		SetLevel(prevLevel)
	})

	return &buf
}

func TestWithFields(t *testing.T) {
	buf := capture(t, LevelInfo)

	WithFields(Fields{
		"path":     "/api/v1/recipients",
		"status":   201,
		"duration": 1500 * time.Millisecond,
		"err":      errors.New("boom"),
	}).Info("request")

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(errors.Wrap(err, "decoding the log line"))
	}

	assert.Equal(t, got["level"], "info", "level mismatch")
	assert.Equal(t, got["msg"], "request", "msg mismatch")
	assert.Equal(t, got["path"], "/api/v1/recipients", "path mismatch")
	assert.Equal(t, got["status"], float64(201), "status mismatch")
	assert.Equal(t, got["duration"], "1.5s", "duration mismatch")
	assert.Equal(t, got["err"], "boom", "err mismatch")
}

func TestLevel(t *testing.T) {
	testCases := []struct {
		level    string
		expected []string
	}{
		{level: LevelDebug, expected: []string{"debug", "info", "warn", "error"}},
		{level: LevelInfo, expected: []string{"info", "warn", "error"}},
		{level: LevelWarn, expected: []string{"warn", "error"}},
		{level: LevelError, expected: []string{"error"}},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			buf := capture(t, tc.level)

			Debug("debug")
			Info("info")
			Warn("warn")
			Error("error")

			var got []string
			for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
				var m map[string]interface{}
				if err := json.Unmarshal([]byte(line), &m); err != nil {
					t.Fatal(errors.Wrap(err, "decoding the log line"))
				}
				got = append(got, m["msg"].(string))
			}

			assert.DeepEqual(t, got, tc.expected, "logged messages mismatch")
		})
	}
}

func TestErrorWrap(t *testing.T) {
	buf := capture(t, LevelInfo)

	ErrorWrap(errors.New("connection refused"), "opening the database")

	assert.Equal(t, strings.Contains(buf.String(), `"msg":"opening the database: connection refused"`), true, "message mismatch")
	assert.Equal(t, strings.Contains(buf.String(), `"level":"error"`), true, "level mismatch")
}

func TestValidLevel(t *testing.T) {
	assert.Equal(t, ValidLevel("warn"), true, "warn should be valid")
	assert.Equal(t, ValidLevel("verbose"), false, "verbose should be invalid")
}
