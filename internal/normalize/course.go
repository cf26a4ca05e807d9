// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package normalize

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/staranto/ferryctl/internal/catalog"
)

// DefaultIDKey is the listing field that identifies a course within a season.
const DefaultIDKey = "crn"

// ratingPrecision is the number of decimals kept for professor ratings.
const ratingPrecision = 1

// Course normalizes course listings. It adds
//   - professors: professor_names joined with ", "
//   - professor_avg_rating: average_professor with one decimal, as a string
//   - season_code: the season, when the listing does not carry one
//
// The zero value uses DefaultIDKey.
type Course struct {
	IDKey string
}

// Normalize implements catalog.Normalizer. It never touches raw.
func (c Course) Normalize(season catalog.Season, raw catalog.RawRecord) (catalog.Record, error) {
	if !gjson.ValidBytes(raw) {
		return catalog.Record{}, &catalog.ParseError{Season: season, Offset: -1, Reason: "invalid JSON"}
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return catalog.Record{}, &catalog.ParseError{Season: season, Offset: -1, Reason: "listing is not an object"}
	}

	key := c.idKey()
	id := doc.Get(gjson.Escape(key))
	if !id.Exists() || id.String() == "" {
		return catalog.Record{}, &catalog.ParseError{Season: season, Offset: -1, Reason: "missing " + key}
	}

	// Value() builds fresh maps on every call so the result shares nothing
	// with earlier records.
	fields, _ := doc.Value().(map[string]any)

	if names := doc.Get("professor_names"); names.IsArray() && len(names.Array()) > 0 {
		profs := make([]string, 0, len(names.Array()))
		for _, n := range names.Array() {
			profs = append(profs, n.String())
		}
		fields["professors"] = strings.Join(profs, ", ")

		// Only the first professor is rated, which is what average_professor is.
		if avg := doc.Get("average_professor"); avg.Type == gjson.Number {
			fields["professor_avg_rating"] = strconv.FormatFloat(avg.Float(), 'f', ratingPrecision, 64)
		}
	}

	if _, ok := fields["season_code"]; !ok {
		fields["season_code"] = string(season)
	}

	return catalog.Record{ID: id.String(), Season: season, Fields: fields}, nil
}

func (c Course) idKey() string {
	if c.IDKey == "" {
		return DefaultIDKey
	}
	return c.IDKey
}
