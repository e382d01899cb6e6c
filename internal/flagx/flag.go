package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs keeps the arguments in args that belong to allowedFlags and
// drops the rest, so several flag sets can share one command line.
//
// A flag may be written as "-name value", "-name=value" or with a double
// dash; "--name" matches an allowed "-name" and the other way round. A value
// is only taken from the next argument when that argument does not start
// with a dash.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[flagName(f)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		if _, ok := allowed[flagName(name)]; !ok {
			continue
		}
		filtered = append(filtered, arg)

		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

func flagName(f string) string {
	return strings.TrimLeft(f, "-")
}

// lookupString returns the value of the last of names present in os.Args.
// Only these flags are parsed, so the application's own flags are left to
// other parsers.
func lookupString(set string, names ...string) string {
	var v string

	allowed := make([]string, 0, len(names))
	fs := flag.NewFlagSet(set, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		allowed = append(allowed, "-"+n)
		fs.StringVar(&v, n, "", "")
	}
	_ = fs.Parse(FilterArgs(os.Args[1:], allowed))

	return v
}

// JsonConfigFlags returns the config file path given with -c or -config,
// or "" when neither is present.
func JsonConfigFlags() string {
	return lookupString("json", "c", "config")
}

// EnvFileFlags returns the dotenv file path given with -e or -env-file,
// or "" when neither is present.
func EnvFileFlags() string {
	return lookupString("env", "e", "env-file")
}
