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

// Package validate checks the fields users enter for entities
package validate

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNameEmpty is an error for an empty name or title
var ErrNameEmpty = errors.New("The name is empty")

// ErrNameMultiline is an error for a name that has linebreaks
var ErrNameMultiline = errors.New("The name contains multiple lines")

// ErrInvalidDate is an error for a date that is neither YYYY-MM-DD nor MM-DD
var ErrInvalidDate = errors.New("The date must be in the form YYYY-MM-DD or MM-DD")

// ErrInvalidPrice is an error for a price that is not a non-negative amount
var ErrInvalidPrice = errors.New("The price must be a non-negative amount such as 12.50")

// ErrInvalidURL is an error for a URL that is not absolute
var ErrInvalidURL = errors.New("The URL must be absolute, such as https://example.com/item")

// Name validates the name of a recipient or an occasion, or the title of an idea
func Name(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameEmpty
	}

	if strings.Contains(name, "\n") || strings.Contains(name, "\r\n") {
		return ErrNameMultiline
	}

	return nil
}

// Date validates an optional date. A date without a year is a yearly date.
func Date(s string) error {
	if s == "" {
		return nil
	}

	if _, err := time.Parse("2006-01-02", s); err == nil {
		return nil
	}
	// a leap year so that 02-29 parses
	if _, err := time.Parse("2006-01-02", "2024-"+s); err == nil && len(s) == 5 {
		return nil
	}

	return ErrInvalidDate
}

// Price parses an amount such as "12", "12.5" or "$12.50" into cents
func Price(s string) (int64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return 0, nil
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || (hasFrac && (frac == "" || len(frac) > 2)) {
		return 0, ErrInvalidPrice
	}

	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || dollars < 0 || dollars > math.MaxInt64/100-1 {
		return 0, ErrInvalidPrice
	}

	var cents int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		if cents, err = strconv.ParseInt(frac, 10, 64); err != nil || cents < 0 {
			return 0, ErrInvalidPrice
		}
	}

	return dollars*100 + cents, nil
}

// URL validates an optional link to an idea
func URL(s string) error {
	if s == "" {
		return nil
	}

	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidURL
	}

	return nil
}
