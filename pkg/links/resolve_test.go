package links

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voidshard/conveyor/pkg/structs"
)

func testResolver() *Resolver {
	opts := &structs.Options{Origin: "http://localhost:3000"}
	opts.SetDefaults()
	return NewResolver(opts)
}

func TestResolveRewritesStorageLinks(t *testing.T) {
	r := testResolver()

	out := r.Resolve(&structs.Link{Href: "s3://bucket/public/path.tif", Rel: structs.RelData, Type: "image/tif"})

	assert.Len(t, out, 1)
	assert.Equal(t, "http://localhost:3000/service-results/bucket/public/path.tif", out[0].Href)
	assert.Equal(t, "image/tif", out[0].Type)
}

func TestResolveLeavesOtherLinks(t *testing.T) {
	r := testResolver()

	cases := []struct {
		Name  string
		Given *structs.Link
	}{
		{"HTTPData", &structs.Link{Href: "https://example.com/a.tif", Rel: structs.RelData}},
		{"Self", &structs.Link{Href: "http://localhost:3000/jobs/x", Rel: structs.RelSelf}},
		{"S3Access", &structs.Link{Href: "s3://bucket/a/", Rel: structs.RelS3Access}},
		{"GSData", &structs.Link{Href: "gs://bucket/public/path.tif", Rel: structs.RelData, Type: "image/tif"}},
		{"GSRawContainer", &structs.Link{Href: "gs://bucket/public/path.zarr", Rel: structs.RelData, Type: "application/x-zarr"}},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			out := r.Resolve(c.Given)

			assert.Len(t, out, 1)
			assert.Equal(t, c.Given.Href, out[0].Href)
		})
	}
}

func TestResolveRawContainer(t *testing.T) {
	r := testResolver()
	uri := "s3://example-bucket/public/example/path.zarr"

	out := r.Resolve(&structs.Link{Href: uri, Rel: structs.RelData, Type: "application/x-zarr"})

	assert.Len(t, out, 4)
	assert.Equal(t, uri, out[0].Href)

	assert.Equal(t, structs.RelS3Access, out[1].Rel)
	assert.Equal(t, "s3://example-bucket/public/example/", out[1].Href)
	assert.Equal(t, "Results in AWS S3. Access from AWS us-west-2 with keys from /cloud-access.sh", out[1].Title)

	assert.Equal(t, structs.RelCloudAccessJSON, out[2].Rel)
	assert.Equal(t, "http://localhost:3000/cloud-access", out[2].Href)
	assert.Equal(t, "application/json", out[2].Type)
	assert.Equal(t, "Access keys for s3:// URLs, usable from AWS us-west-2 (JSON format)", out[2].Title)

	assert.Equal(t, structs.RelCloudAccessSh, out[3].Rel)
	assert.Equal(t, "http://localhost:3000/cloud-access.sh", out[3].Href)
	assert.Equal(t, "application/x-sh", out[3].Type)
	assert.Equal(t, "Access keys for s3:// URLs, usable from AWS us-west-2 (Shell format)", out[3].Title)
}

func TestResolveAll(t *testing.T) {
	r := testResolver()
	in := []*structs.Link{
		{Href: "http://localhost:3000/jobs/x", Rel: structs.RelSelf},
		{Href: "s3://bucket/a/one.zarr", Rel: structs.RelData, Type: "application/x-zarr"},
		{Href: "s3://bucket/b/two.zarr", Rel: structs.RelData, Type: "application/x-zarr"},
		{Href: "s3://bucket/c/three.tif", Rel: structs.RelData, Type: "image/tiff"},
	}

	out := r.ResolveAll(in)

	rels := []structs.Relation{}
	for _, l := range out {
		rels = append(rels, l.Rel)
	}
	assert.Equal(t, []structs.Relation{
		structs.RelSelf,
		structs.RelData,
		structs.RelS3Access,
		structs.RelCloudAccessJSON,
		structs.RelCloudAccessSh,
		structs.RelData,
		structs.RelData,
	}, rels)

	// the later s3-access link replaced the first in place
	assert.Equal(t, "s3://bucket/b/", out[2].Href)
	assert.Equal(t, "http://localhost:3000/service-results/bucket/c/three.tif", out[6].Href)

	// stored links untouched
	assert.Equal(t, "s3://bucket/c/three.tif", in[3].Href)
}

func TestServiceResultURL(t *testing.T) {
	cases := []struct {
		Name   string
		Origin string
		Bucket string
		Key    string
		Expect string
	}{
		{"Simple", "http://h", "b", "k.tif", "http://h/service-results/b/k.tif"},
		{"TrailingSlash", "http://h/", "b", "a/k.tif", "http://h/service-results/b/a/k.tif"},
		{"Escapes", "http://h", "b", "a b/k?.tif", "http://h/service-results/b/a%20b/k%3F.tif"},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c.Expect, ServiceResultURL(c.Origin, c.Bucket, c.Key))
		})
	}
}

func TestStorageURIRoundTrip(t *testing.T) {
	r := testResolver()
	out := r.Resolve(&structs.Link{Href: "s3://bucket/public/path.tif", Rel: structs.RelData, Type: "image/tif"})
	assert.Equal(t, "http://localhost:3000/service-results/bucket/public/path.tif", out[0].Href)

	scheme, bucket, key, ok := ParseStorageURI(StorageURI("bucket", "public/path.tif"))

	assert.True(t, ok)
	assert.Equal(t, "s3", scheme)
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "public/path.tif", key)
}
