package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	actx "go.hackfix.me/hypersphere/app/context"
	"go.hackfix.me/hypersphere/auth"
)

// Credential generates credentials accepted by resource authentication.
type Credential struct {
	Token    CredentialToken    `kong:"cmd,help='Generate a bearer token for a user.'"`
	Password CredentialPassword `kong:"cmd,help='Hash a password read from stdin, for Basic authentication.'"`
}

// CredentialToken generates a bearer token.
type CredentialToken struct {
	User string `arg:"" help:"Name of the user the token identifies."`
}

// Run the credential token command.
func (c *CredentialToken) Run(appCtx *actx.Context) error {
	token, digest, err := auth.NewToken()
	if err != nil {
		return err
	}

	fmt.Fprintf(appCtx.Stdout, "Token: %s\n\n", token)
	fmt.Fprintf(appCtx.Stdout,
		"Add the digest to the resource configuration:\n\nauth:\n  tokens:\n    %s: %s\n",
		c.User, digest)

	return nil
}

// CredentialPassword hashes a password.
type CredentialPassword struct {
	User string `arg:"" optional:"" help:"Name of the user the password belongs to."`
}

// Run the credential password command.
func (c *CredentialPassword) Run(appCtx *actx.Context) error {
	scanner := bufio.NewScanner(appCtx.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed reading password: %w", err)
		}
		return errors.New("no password provided on stdin")
	}

	hash, err := auth.HashPassword(strings.TrimRight(scanner.Text(), "\r"))
	if err != nil {
		return err
	}

	if c.User == "" {
		fmt.Fprintln(appCtx.Stdout, hash)
		return nil
	}
	fmt.Fprintf(appCtx.Stdout, "auth:\n  basic:\n    %s: '%s'\n", c.User, hash)

	return nil
}
