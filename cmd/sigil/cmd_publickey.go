package main

import (
	"io"

	"github.com/codahale/sigil/pkg/sigil/armor"
)

type publicKeyCmd struct {
	PrivateKey string `arg:"" type:"existingfile" help:"The path to the private key."`
	Output     string `arg:"" type:"path" default:"-" help:"The output path for the public key."`

	Armor bool `help:"Write the compressed key in an armored block instead of base58."`
}

func (cmd *publicKeyCmd) Run(e *env) error {
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

	if cmd.Armor {
		b, err := sk.PublicKey().MarshalBinary()
		if err != nil {
			return err
		}

		_, err = dst.Write(armor.Encode(b, armor.PublicKey))

		return err
	}

	// Encode the public key and write it to the output.
	_, err = io.WriteString(dst, sk.PublicKey().String()+"\n")

	return err
}
