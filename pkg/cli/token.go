package cli

import (
	"bufio"
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/Anoopsmohan/monstor-tickets/pkg/cli/config"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model/auth"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/safe"
)

// cmdToken issues a session token for API clients
func cmdToken() *cli.Command {
	var authCfg config.Auth
	var userID, name, email string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID the token is issued to",
			Required:    true,
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "name",
			Usage:       "Display name of the user",
			Destination: &name,
		},
		&cli.StringFlag{
			Name:        "email",
			Usage:       "Email of the user",
			Destination: &email,
		},
	}
	flags = append(flags, authCfg.Flags()...)

	return &cli.Command{
		Name:  "token",
		Usage: "Issue a session token (use as 'Authorization: Bearer <token>')",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			issuer, err := authCfg.TokenIssuer()
			if err != nil {
				return err
			}

			session, err := issuer.IssueToken(ctx, &auth.User{
				ID:    types.UserID(userID),
				Name:  name,
				Email: email,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to issue token")
			}

			safe.Println(ctx, c.Root().Writer, session.Token)
			return nil
		},
	}
}

// cmdHashPassword reads a password from stdin and prints the bcrypt hash
// for the password_hash field of the config file
func cmdHashPassword() *cli.Command {
	var cost int

	return &cli.Command{
		Name:  "hash-password",
		Usage: "Hash a password read from stdin",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "cost",
				Usage:       "bcrypt cost",
				Value:       bcrypt.DefaultCost,
				Destination: &cost,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			line, err := bufio.NewReader(c.Root().Reader).ReadString('\n')
			if err != nil && line == "" {
				return goerr.Wrap(err, "failed to read password")
			}
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				return goerr.New("password is empty")
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
			if err != nil {
				return goerr.Wrap(err, "failed to hash password", goerr.V("cost", cost))
			}

			safe.Println(ctx, c.Root().Writer, string(hash))
			return nil
		},
	}
}
