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

package diff

import (
	"testing"

	"github.com/giftwise/giftwise/pkg/assert"
)

func TestUnified(t *testing.T) {
	testCases := []struct {
		name     string
		s1       string
		s2       string
		expected string
	}{
		{
			name:     "identical",
			s1:       "a\nb\n",
			s2:       "a\nb\n",
			expected: "  a\n  b\n",
		},
		{
			name:     "changed line",
			s1:       "{\n  \"name\": \"Ana\"\n}\n",
			s2:       "{\n  \"name\": \"Anna\"\n}\n",
			expected: "  {\n-   \"name\": \"Ana\"\n+   \"name\": \"Anna\"\n  }\n",
		},
		{
			name:     "insert only",
			s1:       "",
			s2:       "x\n",
			expected: "+ x\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, Unified(tc.s1, tc.s2), tc.expected, "diff mismatch")
		})
	}
}
