// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"fmt"

	"github.com/apex/log"

	"github.com/staranto/ferryctl/internal/catalog"
)

// Types accepted by New.
const (
	TypeHTTP = "http"
	TypeS3   = "s3"
	TypeDir  = "dir"
)

// Types lists every supported source type.
var Types = []string{TypeHTTP, TypeS3, TypeDir}

// Options selects and configures a source.
type Options struct {
	Type string

	// http
	URL        string
	PathFormat string

	// dir
	Dir string

	// s3
	Bucket   string
	Prefix   string
	Region   string
	Profile  string
	Endpoint string
}

// New builds the source described by opts.
func New(ctx context.Context, opts Options) (catalog.Source, error) {
	log.Debugf("source options: %+v", opts)

	switch opts.Type {
	case TypeHTTP, "":
		if opts.URL == "" {
			return nil, fmt.Errorf("http source requires a url")
		}
		h := NewHTTP(opts.URL)
		h.PathFormat = opts.PathFormat
		return h, nil
	case TypeDir:
		if opts.Dir == "" {
			return nil, fmt.Errorf("dir source requires a directory")
		}
		return Dir{Root: opts.Dir}, nil
	case TypeS3:
		if opts.Bucket == "" {
			return nil, fmt.Errorf("s3 source requires a bucket")
		}
		var awsOpts []AWSOption
		if opts.Profile != "" {
			awsOpts = append(awsOpts, WithProfile(opts.Profile))
		}
		if opts.Region != "" {
			awsOpts = append(awsOpts, WithRegion(opts.Region))
		}
		if opts.Endpoint != "" {
			awsOpts = append(awsOpts, WithEndpoint(opts.Endpoint))
		}
		return NewS3(ctx, opts.Bucket, opts.Prefix, awsOpts...)
	}

	return nil, fmt.Errorf("unknown source type %q, must be one of %v", opts.Type, Types)
}
