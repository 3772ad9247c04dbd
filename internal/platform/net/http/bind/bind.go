// Package bind decodes JSON request bodies and validates them with
// go-playground/validator, reporting failures as perr errors that name the field
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "seqfeat/internal/platform/errors"
	"seqfeat/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

// MaxBody caps request bodies; a 10k-record batch of long sequences fits
const MaxBody = 8 << 20

type engine struct {
	v  *validator.Validate
	tr ut.Translator
}

var shared = sync.OnceValue(func() engine {
	loc := en.New()
	tr, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = entrans.RegisterDefaultTranslations(v, tr)

	// the stock min/max texts talk about characters and items; these read for both
	for tag, text := range map[string]string{
		"min": "{0} must be at least {1}",
		"max": "{0} must be at most {1}",
	} {
		_ = v.RegisterTranslation(tag, tr,
			func(t ut.Translator) error { return t.Add(tag, text, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T(tag, fe.Field(), fe.Param())
				return msg
			})
	}
	return engine{v: v, tr: tr}
})

// jsonName reports fields by their json name so messages match the request
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "", "-":
		return f.Name
	}
	return name
}

// Validate checks v's validate tags. The first failure becomes an
// ErrorCodeValidation error whose field is the path below the root struct,
// e.g. "records[3].id".
func Validate(v any) error {
	err := shared().v.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		logger.Get().Error().Err(err).Msg("validator rejected its input")
		return perr.Wrap(err, perr.ErrorCodeValidation, "validation error")
	}
	fe := verrs[0]
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", fe.Translate(shared().tr)), fieldPath(fe))
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// ParseJSON decodes exactly one JSON value of type T from the body, rejecting
// unknown fields, trailing data and bodies over MaxBody, then validates it
func ParseJSON[T any](r *http.Request) (T, error) {
	var dst T
	body := http.MaxBytesReader(nil, r.Body, MaxBody)
	defer func() { _ = body.Close() }()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return dst, perr.JSONErrf("empty body")
		case errors.As(err, &tooBig):
			return dst, perr.JSONErrf("body exceeds %d bytes", tooBig.Limit)
		}
		return dst, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return dst, perr.JSONErrf("unexpected trailing data")
	}
	if err := Validate(dst); err != nil {
		var zero T
		return zero, err
	}
	return dst, nil
}
