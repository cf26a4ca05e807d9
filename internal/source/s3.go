// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/staranto/ferryctl/internal/catalog"
)

// GetObjectAPI is the slice of the S3 client the source needs.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// S3 reads s3://<Bucket>/<Prefix><season>.json.
type S3 struct {
	Client GetObjectAPI
	Bucket string
	Prefix string
}

// awsOptions holds optional overrides for AWS config loading.
type awsOptions struct {
	profile  string
	region   string
	endpoint string
}

// AWSOption customizes how the S3 client is built. With no options the
// shell's AWS setup is inherited (AWS_PROFILE, shared config, env, IMDS).
type AWSOption func(*awsOptions)

// WithProfile sets the shared config profile.
func WithProfile(profile string) AWSOption {
	return func(o *awsOptions) { o.profile = profile }
}

// WithRegion sets the region override.
func WithRegion(region string) AWSOption {
	return func(o *awsOptions) { o.region = region }
}

// WithEndpoint points the client at an S3 compatible endpoint and switches to
// path-style addressing.
func WithEndpoint(endpoint string) AWSOption {
	return func(o *awsOptions) { o.endpoint = endpoint }
}

// NewS3 loads the AWS config and returns an S3 source for bucket.
func NewS3(ctx context.Context, bucket, prefix string, opts ...AWSOption) (*S3, error) {
	var o awsOptions
	for _, opt := range opts {
		opt(&o)
	}

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3v2.NewFromConfig(cfg, func(so *s3v2.Options) {
		if o.endpoint != "" {
			so.BaseEndpoint = awsv2.String(o.endpoint)
			so.UsePathStyle = true
		}
	})

	return &S3{Client: client, Bucket: bucket, Prefix: prefix}, nil
}

// Key returns the object key for season.
func (s *S3) Key(season catalog.Season) string {
	return path.Join(s.Prefix, string(season)+".json")
}

// Fetch implements catalog.Source.
func (s *S3) Fetch(ctx context.Context, season catalog.Season) ([]catalog.RawRecord, error) {
	key := s.Key(season)
	u := fmt.Sprintf("s3://%s/%s", s.Bucket, key)
	log.Debugf("GET %s", u)

	out, err := s.Client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.Bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		nerr := &catalog.NetworkError{Season: season, URL: u, Err: err}
		var re *awshttp.ResponseError
		if errors.As(err, &re) {
			nerr.StatusCode = re.HTTPStatusCode()
		}
		return nil, nerr
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &catalog.NetworkError{Season: season, URL: u, Err: fmt.Errorf("failed to read S3 object body: %w", err)}
	}

	return Decode(season, body)
}
