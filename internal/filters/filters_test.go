// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/staranto/ferryctl/internal/attrs"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		delim   string
		want    []Filter
		wantErr bool
	}{
		{name: "empty spec"},
		{
			name: "exact match",
			spec: "subject=CPSC",
			want: []Filter{{Key: "subject", Operand: "=", Target: "CPSC"}},
		},
		{
			name: "negated prefix",
			spec: "course_code!^ENGL",
			want: []Filter{{Key: "course_code", Operand: "^", Target: "ENGL", Negate: true}},
		},
		{
			name: "multiple filters",
			spec: "subject=CPSC,credits>0.5",
			want: []Filter{
				{Key: "subject", Operand: "=", Target: "CPSC"},
				{Key: "credits", Operand: ">", Target: "0.5"},
			},
		},
		{
			name:  "custom delimiter",
			spec:  "title@Data, Science;subject=CPSC",
			delim: ";",
			want: []Filter{
				{Key: "title", Operand: "@", Target: "Data, Science"},
				{Key: "subject", Operand: "=", Target: "CPSC"},
			},
		},
		{
			name: "target may hold operators",
			spec: "title=a=b",
			want: []Filter{{Key: "title", Operand: "=", Target: "a=b"}},
		},
		{name: "no operator", spec: "subject", wantErr: true},
		{name: "no key", spec: "=CPSC", wantErr: true},
		{name: "bad regex", spec: "title/([", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildFilters(tt.spec, tt.delim)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].Key, got[i].Key)
				assert.Equal(t, tt.want[i].Operand, got[i].Operand)
				assert.Equal(t, tt.want[i].Target, got[i].Target)
				assert.Equal(t, tt.want[i].Negate, got[i].Negate)
			}
		})
	}
}

const course = `{
	"crn": "10001",
	"subject": "CPSC",
	"course_code": "CPSC 201",
	"title": "Introduction to Computer Science",
	"credits": 1,
	"professor_avg_rating": "4.2",
	"skills": ["QR", "Sc"],
	"extra_info": {"writing": true},
	"flagged": false,
	"notes": null
}`

func TestMatch(t *testing.T) {
	list := attrs.AttrList{{Key: "course_code", OutputKey: "course", Include: true}}

	tests := []struct {
		spec string
		want bool
	}{
		{"subject=CPSC", true},
		{"subject!=CPSC", false},
		{"subject~cpsc", true},
		{"course^CPSC", true},
		{"course_code^MATH", false},
		{"title@Computer", true},
		{"title!@Computer", false},
		{"title/^Intro.*Science$", true},
		{"credits=1", true},
		{"credits>0.5", true},
		{"credits<1", false},
		{"credits!>2", true},
		{"crn>10000", true},
		{"crn<09999", false},
		{"skills@QR", true},
		{"skills@WR", false},
		{"skills!@WR", true},
		{"extra_info@writing", true},
		{"flagged=false", true},
		{"notes=x", false},
		{"missing=x", false},
		{"missing!=x", true},
		{"subject=CPSC,credits=1", true},
		{"subject=CPSC,credits=2", false},
	}

	doc := gjson.Parse(course)
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			filters, err := BuildFilters(tt.spec, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, Match(doc, list, filters))
		})
	}
}

func TestMatch_NoFilters(t *testing.T) {
	assert.True(t, Match(gjson.Parse(course), nil, nil))
}
