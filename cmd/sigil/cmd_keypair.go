package main

import (
	"fmt"
	"os"

	"github.com/codahale/sigil/pkg/sigil"
	"github.com/codahale/sigil/pkg/sigil/armor"
)

type keyPairCmd struct {
	Output string `arg:"" type:"path" help:"The output path for the encrypted private key."`

	Time        uint32 `default:"1" help:"The Argon2id time parameter."`
	Memory      uint32 `default:"1048576" help:"The Argon2id memory parameter, in KiB."`
	Parallelism uint8  `default:"4" help:"The Argon2id parallelism parameter."`
}

func (cmd *keyPairCmd) Run(e *env) error {
	// Prompt for the PBE passphrase.
	passphrase, err := askPassphrase("Enter passphrase: ")
	if err != nil {
		return err
	}

	// Generate a new private key.
	sk, err := e.scheme.GenerateKey()
	if err != nil {
		return err
	}

	// Encrypt the private key with the passphrase.
	esk, err := e.scheme.EncryptPrivateKey(sk, passphrase, &sigil.Argon2idParams{
		Time:        cmd.Time,
		Memory:      cmd.Memory,
		Parallelism: cmd.Parallelism,
	})
	if err != nil {
		return err
	}

	// Write out the armored private key.
	if err := os.WriteFile(cmd.Output, armor.Encode(esk, armor.PrivateKey), 0o600); err != nil {
		return err
	}

	e.logger.Info().Str("path", cmd.Output).Stringer("public_key", sk.PublicKey()).Msg("generated key pair")

	// Print the public key.
	_, err = fmt.Println(sk.PublicKey())

	return err
}
