package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	jwttoken "studycat/internal/jwt_token"
	"studycat/internal/platform/config"
	id "studycat/pkg/domain"
	dErrors "studycat/pkg/domain-errors"
)

// tokenCmd mints a curator token signed with the server's JWT settings, so
// operators can hand out write access without a separate identity provider.
func (c *cli) tokenCmd() *cobra.Command {
	var curator string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a curator bearer token for the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			curatorID := id.CuratorID(uuid.New())
			if curator != "" {
				parsed, err := id.ParseCuratorID(curator)
				if err != nil {
					return err
				}
				curatorID = parsed
			}
			if ttl <= 0 {
				return dErrors.New(dErrors.CodeBadRequest, "--ttl must be positive")
			}

			auth := config.FromEnv().Auth
			signed, err := jwttoken.NewJWTService(auth.JWTSigningKey, auth.Issuer, auth.Audience).
				GenerateToken(curatorID, id.APIVersionV1, ttl)
			if err != nil {
				return err
			}
			c.logger.Info("issued curator token", "curator_id", curatorID, "ttl", ttl)
			_, err = fmt.Fprintln(c.out, signed)
			return err
		},
	}
	cmd.Flags().StringVar(&curator, "curator", "", "curator ID (random when empty)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
