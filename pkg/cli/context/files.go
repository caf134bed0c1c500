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

package context

import (
	"github.com/giftwise/giftwise/pkg/cli/utils"
	"github.com/giftwise/giftwise/pkg/dirs"
	"github.com/pkg/errors"
)

// InitDirs creates the giftwise directories if they don't already exist.
func InitDirs(paths dirs.Paths) error {
	for _, dir := range []string{paths.Config, paths.Data, paths.Cache} {
		if dir == "" {
			continue
		}

		if err := utils.EnsureDir(dir); err != nil {
			return errors.Wrapf(err, "initializing %s", dir)
		}
	}

	return nil
}
