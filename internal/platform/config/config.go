// Package config reads settings from the environment through prefixed views,
// so each module sees only its own keys (CORE_FEATURES_WORKERS is WORKERS
// under the CORE_FEATURES_ view).
//
// Blank values mean "use the default". Unparseable values log a warning and
// also fall back, except enums, where a typo should stop the process.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"seqfeat/internal/platform/logger"

	"github.com/joho/godotenv"
)

// Conf is a prefixed view over the environment
type Conf struct{ prefix string }

// New is the unprefixed root view
func New() Conf { return Conf{} }

// Prefix narrows the view, e.g. New().Prefix("CORE_").Prefix("FEATURES_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

// lookup returns the trimmed value of key and whether it is non-blank
func (c Conf) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(c.key(key)))
	return v, v != ""
}

// LoadDotEnv loads KEY=VALUE files into the environment. Missing files are
// skipped and variables that are already set keep their value.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return err
		}
		logger.Get().Debug().Str("path", p).Msg("dotenv loaded")
	}
	return nil
}

// parsed is the shared shape of the typed getters
func parsed[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().
			Str("key", c.key(key)).
			Str("value", s).
			Interface("default", def).
			Msg("unparseable setting, using default")
		return def
	}
	return v
}

// MayString returns the value of key or def
func (c Conf) MayString(key, def string) string {
	if v, ok := c.lookup(key); ok {
		return v
	}
	return def
}

// MayInt returns key as an int or def
func (c Conf) MayInt(key string, def int) int { return parsed(c, key, def, strconv.Atoi) }

// MayBool returns key as a bool (strconv.ParseBool syntax) or def
func (c Conf) MayBool(key string, def bool) bool { return parsed(c, key, def, strconv.ParseBool) }

// MayDuration returns key as a time.Duration ("1m30s") or def
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return parsed(c, key, def, time.ParseDuration)
}

// MayCSV splits key on commas, dropping blanks; def when nothing is left
func (c Conf) MayCSV(key string, def []string) []string {
	s, _ := c.lookup(key)
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns key lower-cased when it case-insensitively matches one of
// allowed, def when blank, and panics otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(a)
		}
	}
	logger.Get().Panic().
		Str("key", c.key(key)).
		Str("value", v).
		Strs("allowed", allowed).
		Msg("setting not in allowed set")
	return ""
}
