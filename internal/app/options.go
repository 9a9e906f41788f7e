package app

import (
	"bytes"
	"fmt"
	"io"
	"reflect"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

func (options *CLIOptions) parse(s []string, errOut io.Writer) ([]string, error) {
	p := flags.NewParser(options, flags.PrintErrors)
	args, err := p.ParseArgs(s)
	if err != nil {
		errOut.Write(options.help())
		return nil, errors.Wrap(err, "invalid command line options")
	}

	if err := options.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid command line arguments")
	}

	return args, nil
}

// Validate checks the combinations go-flags cannot check on its own.
func (options CLIOptions) Validate() error {
	if options.OptDelay < -1 {
		return errors.Errorf("invalid delay %d: must not be negative", options.OptDelay)
	}
	if options.OptOffset < 0 {
		return errors.Errorf("invalid offset %d: must not be negative", options.OptOffset)
	}
	modes := 0
	for _, m := range []string{options.OptList, options.OptCount, options.OptNavigate} {
		if m != "" {
			modes++
		}
	}
	if modes > 1 {
		return errors.New("--list, --count and --navigate are mutually exclusive")
	}
	return nil
}

func (options CLIOptions) help() []byte {
	buf := bytes.Buffer{}

	fmt.Fprintf(&buf, `
Usage: wordjump [options] FILE

Options:
`)

	t := reflect.TypeOf(options)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag

		var o string
		if s := tag.Get("short"); s != "" {
			o = fmt.Sprintf("-%s, --%s", tag.Get("short"), tag.Get("long"))
		} else {
			o = fmt.Sprintf("--%s", tag.Get("long"))
		}

		fmt.Fprintf(
			&buf,
			"  %-21s %s\n",
			o,
			tag.Get("description"),
		)
	}

	return buf.Bytes()
}
