package config

import (
	"fmt"
	"os"
	"strconv"
)

// Prefix is the namespace of every environment variable the service reads.
const Prefix = "WAYFARER_"

// The env helpers fill only fields the config files left unset, so the
// precedence is file, then environment, then default. A value that does
// not parse is an error rather than a silent fallback.

func envString(name string, field *string) {
	if *field != "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		*field = v
	}
}

func envInt(name string, field *int) error {
	if *field != 0 {
		return nil
	}
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %q is not an integer", name, v)
	}
	*field = n
	return nil
}

func envIntPtr(name string, field **int) error {
	if *field != nil {
		return nil
	}
	var n int
	if err := envInt(name, &n); err != nil {
		return err
	}
	if os.Getenv(name) != "" {
		*field = &n
	}
	return nil
}

func envFloatPtr(name string, field **float64) error {
	if *field != nil {
		return nil
	}
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %q is not a number", name, v)
	}
	*field = &f
	return nil
}
