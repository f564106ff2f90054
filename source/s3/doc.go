// Package s3 loads a policy document from an S3 (or S3-compatible) bucket.
//
// The object is a regular policy file; its format is chosen by the key's
// extension exactly as in the file source, so the same roles.yml works from
// disk and from a bucket. MinIO and other S3-compatible stores work through
// the Endpoint and ForcePathStyle settings.
//
//	source, err := s3.New(ctx, s3.Config{
//	    Bucket: "acme-policies",
//	    Key:    "authz/roles.yml",
//	    Region: "us-east-1",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	authz, err := rbac.New(ctx, source)
//
// The Client interface covers the single S3 call the source makes, so tests
// can swap in a mock without touching the network.
package s3
