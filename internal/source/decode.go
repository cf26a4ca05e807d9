// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"github.com/tidwall/gjson"

	"github.com/staranto/ferryctl/internal/catalog"
)

// Decode splits a season payload into raw listings. The payload must be a
// JSON array; anything else is a *catalog.ParseError.
func Decode(season catalog.Season, body []byte) ([]catalog.RawRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, &catalog.ParseError{Season: season, Offset: -1, Reason: "invalid JSON payload"}
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsArray() {
		return nil, &catalog.ParseError{Season: season, Offset: -1, Reason: "payload is not an array"}
	}

	items := doc.Array()
	out := make([]catalog.RawRecord, 0, len(items))
	for _, item := range items {
		out = append(out, catalog.RawRecord(item.Raw))
	}
	return out, nil
}
