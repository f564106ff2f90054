package s3

// Config describes where the policy object lives and how to reach it.
// Endpoint and ForcePathStyle exist for S3-compatible services like MinIO.
type Config struct {
	Bucket         string `env:"S3_BUCKET,required"`                    // Bucket is the bucket holding the policy object.
	Key            string `env:"S3_POLICY_KEY" envDefault:"roles.yml"`  // Key is the object key; its extension selects the format.
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`      // Region is the AWS region of the bucket.
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`                      // AccessKeyID is optional; the default credential chain applies when empty.
	SecretKey      string `env:"S3_SECRET_ACCESS_KEY"`                  // SecretKey pairs with AccessKeyID.
	Endpoint       string `env:"S3_ENDPOINT"`                           // Endpoint overrides the AWS endpoint for S3-compatible services.
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"` // ForcePathStyle is required by MinIO and friends.
}
