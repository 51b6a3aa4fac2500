// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package parser

import (
	"strings"

	"github.com/google/shlex"
)

// tokenize splits a raw query string into tokens.
//
// Description:
//
//	Structural commas are replaced with whitespace first, then the string
//	is split following shell-word quoting rules: single- and double-quoted
//	substrings form one token with embedded whitespace preserved. This lets
//	users write class="SN candidate" or quote names containing spaces.
//
// Outputs:
//
//	[]string - The tokens, in input order. Never nil on success.
//	error    - Non-nil when quoting is unbalanced. The caller fails closed.
func tokenize(query string) ([]string, error) {
	cleaned := strings.ReplaceAll(query, ",", " ")
	tokens, err := shlex.Split(cleaned)
	if err != nil {
		return nil, err
	}
	return tokens, nil
}
