package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// NewSSMClient builds a Parameter Store client from the default AWS credential chain.
func NewSSMClient(ctx context.Context, region string) (*ssm.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// ApplySSMParameters copies every parameter under prefix into env.
// "/portfolio/prod/session-secret" becomes SESSION_SECRET. Values already
// present in env win, so a local override always beats the parameter store.
func ApplySSMParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, prefix string, env map[string]string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	applied := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return applied, fmt.Errorf("read parameters under %s: %w", prefix, err)
		}

		for _, p := range page.Parameters {
			key := parameterKey(aws.ToString(p.Name))
			if key == "" {
				continue
			}
			if env[key] != "" {
				log.Debug().Str("key", key).Msg("Environment overrides SSM parameter")
				continue
			}
			env[key] = aws.ToString(p.Value)
			applied++
		}
	}

	return applied, nil
}

func parameterKey(name string) string {
	base := path.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return strings.ToUpper(strings.ReplaceAll(base, "-", "_"))
}
