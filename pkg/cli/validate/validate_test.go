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

package validate

import (
	"fmt"
	"testing"

	"github.com/giftwise/giftwise/pkg/assert"
)

func TestName(t *testing.T) {
	testCases := []struct {
		input    string
		expected error
	}{
		{input: "Jane Smith", expected: nil},
		{input: "Birthday", expected: nil},
		{input: "", expected: ErrNameEmpty},
		{input: "   ", expected: ErrNameEmpty},
		{input: "Jane\nSmith", expected: ErrNameMultiline},
		{input: "Jane\r\nSmith", expected: ErrNameMultiline},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("name %q", tc.input), func(t *testing.T) {
			assert.Equal(t, Name(tc.input), tc.expected, "result mismatch")
		})
	}
}

func TestDate(t *testing.T) {
	testCases := []struct {
		input    string
		expected error
	}{
		{input: "", expected: nil},
		{input: "2026-12-25", expected: nil},
		{input: "12-25", expected: nil},
		{input: "02-29", expected: nil},
		{input: "2025-02-29", expected: ErrInvalidDate},
		{input: "13-01", expected: ErrInvalidDate},
		{input: "12/25", expected: ErrInvalidDate},
		{input: "2-1", expected: ErrInvalidDate},
		{input: "tomorrow", expected: ErrInvalidDate},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("date %q", tc.input), func(t *testing.T) {
			assert.Equal(t, Date(tc.input), tc.expected, "result mismatch")
		})
	}
}

func TestPrice(t *testing.T) {
	testCases := []struct {
		input    string
		expected int64
		err      error
	}{
		{input: "", expected: 0},
		{input: "12", expected: 1200},
		{input: "12.5", expected: 1250},
		{input: "$12.50", expected: 1250},
		{input: "0.05", expected: 5},
		{input: " 3.99 ", expected: 399},
		{input: "-1", err: ErrInvalidPrice},
		{input: "1.234", err: ErrInvalidPrice},
		{input: "1.", err: ErrInvalidPrice},
		{input: ".5", err: ErrInvalidPrice},
		{input: "ten", err: ErrInvalidPrice},
		{input: "1.-5", err: ErrInvalidPrice},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("price %q", tc.input), func(t *testing.T) {
			got, err := Price(tc.input)
			assert.Equal(t, err, tc.err, "error mismatch")
			assert.Equal(t, got, tc.expected, "cents mismatch")
		})
	}
}

func TestURL(t *testing.T) {
	testCases := []struct {
		input    string
		expected error
	}{
		{input: "", expected: nil},
		{input: "https://example.com/lamp", expected: nil},
		{input: "example.com/lamp", expected: ErrInvalidURL},
		{input: "/lamp", expected: ErrInvalidURL},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("url %q", tc.input), func(t *testing.T) {
			assert.Equal(t, URL(tc.input), tc.expected, "result mismatch")
		})
	}
}
