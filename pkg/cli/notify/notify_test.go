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

package notify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/giftwise/giftwise/pkg/assert"
	"github.com/giftwise/giftwise/pkg/cli/log"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	restore := log.SetOutput(&buf)
	defer restore()

	var n Notifier = Console{}
	n.Notice("some changes could not be applied")
	n.Alert("dropped UPDATE Occasion")

	out := buf.String()
	assert.Equal(t, strings.Contains(out, "some changes could not be applied"), true, "notice missing")
	assert.Equal(t, strings.Contains(out, "dropped UPDATE Occasion"), true, "alert missing")
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Notice("a")
	r.Alert("b")
	r.Alert("c")

	assert.DeepEqual(t, r.Notices(), []string{"a"}, "notices mismatch")
	assert.DeepEqual(t, r.Alerts(), []string{"b", "c"}, "alerts mismatch")
}
