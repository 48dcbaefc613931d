package main

import (
	"fmt"
	"io"

	"github.com/codahale/sigil/pkg/sigil"
)

type mintCmd struct {
	PrivateKey string   `arg:"" type:"existingfile" help:"The path to the sender's private key."`
	Recipients []string `arg:"" name:"recipient" repeated:"" help:"The recipients' public keys, or paths to them."`

	Output string `type:"path" default:"-" help:"The output path for the identifiers."`
}

func (cmd *mintCmd) Run(e *env) error {
	// Decrypt the private key.
	sk, err := e.decryptPrivateKey(cmd.PrivateKey)
	if err != nil {
		return err
	}

	// Open the output.
	dst, err := openOutput(cmd.Output)
	if err != nil {
		return err
	}

	defer func() { _ = dst.Close() }()

	return e.mint(dst, sk, cmd.Recipients)
}

// mint writes an identifier from sk for each recipient to dst, one per line.
func (e *env) mint(dst io.Writer, sk *sigil.PrivateKey, recipients []string) error {
	for _, r := range recipients {
		pk, err := e.decodePublicKey(r)
		if err != nil {
			return fmt.Errorf("invalid recipient %q: %w", r, err)
		}

		id, err := e.scheme.GenerateFor(sk, pk)
		if err != nil {
			return err
		}

		e.logger.Debug().Stringer("recipient", pk).Stringer("id", id).Msg("minted identifier")

		if _, err := fmt.Fprintln(dst, id); err != nil {
			return err
		}
	}

	return nil
}
