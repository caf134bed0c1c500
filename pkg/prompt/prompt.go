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

// Package prompt provides utilities for interactive prompts
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// FormatQuestion formats a yes/no question with the appropriate choice indicator
func FormatQuestion(question string, optimistic bool) string {
	choices := "(y/N)"
	if optimistic {
		choices = "(Y/n)"
	}
	return fmt.Sprintf("%s %s", question, choices)
}

// FormatField formats the label of a field, showing the current value kept
// on an empty answer
func FormatField(label, current string) string {
	if current == "" {
		return label
	}

	return fmt.Sprintf("%s [%s]", label, current)
}

func readLine(r *bufio.Reader) (string, error) {
	input, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}

	return strings.TrimSpace(input), nil
}

// ReadYesNo reads and parses a yes/no response from the given reader.
// In optimistic mode, empty input is treated as confirmation.
func ReadYesNo(r io.Reader, optimistic bool) (bool, error) {
	input, err := readLine(bufio.NewReader(r))
	if err != nil {
		return false, err
	}

	switch strings.ToLower(input) {
	case "y", "yes":
		return true, nil
	case "":
		return optimistic, nil
	}

	return false, nil
}

// ReadField reads one line from the reader. An empty line keeps current.
func ReadField(r *bufio.Reader, current string) (string, error) {
	input, err := readLine(r)
	if err != nil {
		return "", err
	}
	if input == "" {
		return current, nil
	}

	return input, nil
}
