package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/codahale/sigil/internal/config"
	"github.com/codahale/sigil/internal/log"
	"github.com/codahale/sigil/pkg/sigil"
	"github.com/codahale/sigil/pkg/sigil/armor"
	"golang.org/x/term"
)

type cli struct {
	Config string `type:"path" help:"The path to a configuration file."`

	KeyPair   keyPairCmd   `cmd:"" help:"Generate a new key pair."`
	PublicKey publicKeyCmd `cmd:"" help:"Print the public key of a private key."`
	Mint      mintCmd      `cmd:"" help:"Mint identifiers for a set of recipients."`
	Verify    verifyCmd    `cmd:"" help:"Check whether an identifier was minted for a private key."`
	Scan      scanCmd      `cmd:"" help:"Filter a stream of identifiers for ones minted for a set of private keys."`
	Curve     curveCmd     `cmd:"" help:"Print and vet the configured curve."`
}

// env is the configured state shared by all commands.
type env struct {
	cfg    *config.Config
	scheme *sigil.Scheme
	logger *log.Logger
}

func main() {
	var cli cli

	ctx := kong.Parse(&cli, kong.Description("Mint and recognize covertly watermarked identifiers."))

	e, err := newEnv(cli.Config)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(e)
	_ = e.logger.Close()
	ctx.FatalIfErrorf(err)
}

func newEnv(path string) (*env, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logger, err := log.New(os.Stderr, cfg.LogConfig())
	if err != nil {
		return nil, err
	}

	scheme, err := cfg.Scheme()
	if err != nil {
		_ = logger.Close()

		return nil, err
	}

	logger.Debug().Stringer("scheme", scheme).Msg("configured")

	return &env{cfg: cfg, scheme: scheme, logger: logger}, nil
}

func (e *env) decodePublicKey(pathOrKey string) (*sigil.PublicKey, error) {
	// Try decoding the key directly.
	if pk, err := e.scheme.DecodePublicKey(pathOrKey); err == nil {
		return pk, nil
	}

	// Otherwise, try reading the contents of it as a file.
	b, err := os.ReadFile(pathOrKey)
	if err != nil {
		return nil, err
	}

	// Armored keys hold the compressed point.
	if bytes.HasPrefix(b, []byte("-----BEGIN ")) {
		data, err := armor.Decode(bytes.NewReader(b), armor.PublicKey)
		if err != nil {
			return nil, err
		}

		return e.scheme.ParsePublicKey(data)
	}

	// Decode the public key.
	return e.scheme.DecodePublicKey(string(bytes.TrimSpace(b)))
}

func (e *env) decryptPrivateKey(path string) (*sigil.PrivateKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer func() { _ = f.Close() }()

	b, err := armor.Decode(f, armor.PrivateKey)
	if err != nil {
		return nil, err
	}

	pwd, err := askPassphrase(fmt.Sprintf("Enter passphrase for %s: ", path))
	if err != nil {
		return nil, err
	}

	return e.scheme.DecryptPrivateKey(b, pwd)
}

func askPassphrase(prompt string) ([]byte, error) {
	defer func() { _, _ = fmt.Fprintln(os.Stderr) }()

	_, _ = fmt.Fprint(os.Stderr, prompt)

	return term.ReadPassword(int(os.Stdin.Fd()))
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}

	return os.Create(path)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(path)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
