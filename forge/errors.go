// Copyright 2026 DataForge Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package forge

import "errors"

// Errors of the tabular readers. Ingest swallows all of them by design:
// unreadable or undecodable tabular input degrades to an empty batch
// sequence instead of surfacing an error.
var (
	// errUnknownFormat reports a tabular stream matching none of the
	// supported formats.
	errUnknownFormat = errors.New("unknown tabular format")

	// errNoSheets reports a workbook without any sheets.
	errNoSheets = errors.New("workbook has no sheets")

	// errEmptyTabular reports a tabular stream holding no table at all
	// (not even a header row).
	errEmptyTabular = errors.New("tabular source is empty")
)
