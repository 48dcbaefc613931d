package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/codahale/sigil/pkg/sigil"
)

type curveCmd struct {
	Check bool `help:"Vet the curve parameters, including primality of p and n."`
}

func (cmd *curveCmd) Run(e *env) error {
	c := e.scheme.Curve()
	params := c.Params()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	_, _ = fmt.Fprintf(w, "name\t%s\n", params.Name)
	_, _ = fmt.Fprintf(w, "p\t%x\n", params.P)
	_, _ = fmt.Fprintf(w, "a\t%x\n", params.A)
	_, _ = fmt.Fprintf(w, "b\t%x\n", params.B)
	_, _ = fmt.Fprintf(w, "gx\t%x\n", params.Gx)
	_, _ = fmt.Fprintf(w, "gy\t%x\n", params.Gy)
	_, _ = fmt.Fprintf(w, "n\t%x\n", params.N)
	_, _ = fmt.Fprintf(w, "h\t%x\n", params.H)
	_, _ = fmt.Fprintf(w, "field bytes\t%d\n", c.ByteLen())
	_, _ = fmt.Fprintf(w, "fast sqrt\t%t\n", c.FastSqrt())
	_, _ = fmt.Fprintf(w, "mode\t%s\n", e.scheme.Mode())
	_, _ = fmt.Fprintf(w, "kdf\t%s\n", e.scheme.KDF())
	_, _ = fmt.Fprintf(w, "identifier bytes\t%d\n", e.scheme.Length())
	_, _ = fmt.Fprintf(w, "key bytes\t%d\n", e.scheme.KeySize())
	_, _ = fmt.Fprintf(w, "tag bytes\t%d\n", e.scheme.TagSize())
	_, _ = fmt.Fprintf(w, "presets\t%s\n", strings.Join(sigil.PresetNames(), ", "))
	_, _ = fmt.Fprintf(w, "kdfs\t%s\n", strings.Join(sigil.KDFNames(), ", "))

	if err := w.Flush(); err != nil {
		return err
	}

	if !cmd.Check {
		return nil
	}

	if err := c.Check(); err != nil {
		return err
	}

	_, err := fmt.Println("curve ok")

	return err
}
