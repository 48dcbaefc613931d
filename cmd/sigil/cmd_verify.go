package main

import (
	"fmt"

	"github.com/codahale/sigil/pkg/sigil"
)

type verifyCmd struct {
	PrivateKey string `arg:"" type:"existingfile" help:"The path to the recipient's private key."`
	Identifier string `arg:"" help:"The identifier, as hex."`
}

func (cmd *verifyCmd) Run(e *env) error {
	// Decrypt the private key.
	sk, err := e.decryptPrivateKey(cmd.PrivateKey)
	if err != nil {
		return err
	}

	// Check the identifier and print its sender.
	sender, err := e.verify(sk, cmd.Identifier)
	if err != nil {
		return err
	}

	_, err = fmt.Println(sender)

	return err
}

// verify decodes a hex identifier and returns its sender if it was minted for sk.
func (e *env) verify(sk *sigil.PrivateKey, text string) (*sigil.PublicKey, error) {
	var id sigil.Identifier
	if err := id.UnmarshalText([]byte(text)); err != nil {
		return nil, err
	}

	return e.scheme.Sender(sk, id)
}
