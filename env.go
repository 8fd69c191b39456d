package keydi

import (
	"strings"

	"github.com/joho/godotenv"
)

// FromEnvFile builds a container from one or more .env files, each variable
// becoming a string-keyed, zero-dependency service holding the literal
// value. With no filenames, ".env" in the working directory is read.
func FromEnvFile(filenames ...string) (*Container, error) {
	vars, err := godotenv.Read(filenames...)
	if err != nil {
		return nil, err
	}

	entries := make(map[Key]any, len(vars))
	for k, v := range vars {
		entries[k] = v
	}
	return FromMap(entries), nil
}

// FromEnviron builds a container from "KEY=VALUE" pairs in the shape of
// os.Environ(). Malformed entries without a "=" are skipped.
func FromEnviron(environ []string) *Container {
	entries := make(map[Key]any, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		entries[k] = v
	}
	return FromMap(entries)
}
