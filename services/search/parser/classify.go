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

// Classify maps the accumulated parse state to the final dispatch action.
//
// Description:
//
//	Pure decision table, evaluated in priority order. The position rule is
//	checked first so that a resolved TNS/SIMBAD name carrying coordinates
//	is dispatched as a position search rather than by name. Exactly one
//	rule fires. Classify is idempotent: it may be called again after the
//	resolver cascade has enriched the intent.
func Classify(in *Intent) {
	switch {
	case in.HasPosition():
		in.Action = ActionConesearch
	case in.Type == TypeZTF:
		in.Action = ActionObjectID
	case in.Type == TypeTracklet:
		in.Action = ActionTracklet
	case in.Type == TypeSSO:
		in.Action = ActionSSO
	default:
		if _, ok := in.Params["class"]; ok {
			in.Action = ActionClass
			in.Hint = "class-based search"
			return
		}
		in.Action = ActionUnknown
	}
}
