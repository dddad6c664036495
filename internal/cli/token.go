package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/socialchef/recipe-finder/internal/middleware"
)

// TokenOptions describes a Supabase-compatible access token.
type TokenOptions struct {
	Secret  string
	BaseURL string
	Subject string
	Role    string
	TTL     time.Duration
}

// MintToken signs an HS256 token the AuthMiddleware accepts. The role is
// carried in app_metadata like a Supabase custom claim.
func MintToken(opts TokenOptions, now time.Time) (string, error) {
	if opts.Secret == "" || opts.BaseURL == "" {
		return "", fmt.Errorf("SUPABASE_JWT_SECRET and SUPABASE_URL must be set")
	}
	claims := jwt.MapClaims{
		"sub":          opts.Subject,
		"role":         "authenticated",
		"aud":          "authenticated",
		"app_metadata": map[string]any{"role": opts.Role},
		"iat":          now.Unix(),
		"exp":          now.Add(opts.TTL).Unix(),
		"iss":          strings.TrimRight(opts.BaseURL, "/") + "/auth/v1",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(opts.Secret))
}

func NewTokenCommand(root *RootCommand) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:     "token",
		Short:   "Mint a token for the document upload API",
		Example: `  curl -H "Authorization: Bearer $(recipes token)" -F file=@cookbook.pdf localhost:8080/api/documents`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.Config()
			token, err := MintToken(TokenOptions{
				Secret:  cfg.SupabaseJWTSecret,
				BaseURL: cfg.SupabaseURL,
				Subject: subject,
				Role:    role,
				TTL:     ttl,
			}, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(root.out, token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "sub", "recipes-cli", "Subject claim")
	cmd.Flags().StringVar(&role, "role", middleware.AdminRole, "app_metadata role")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")

	return cmd
}
