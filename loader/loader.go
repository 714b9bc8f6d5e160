// Package loader populates typed view state from static JSON resources.
//
// A load issues exactly one fetch, decodes and validates the document, and
// settles on either the fetched value or a caller-supplied fallback. The
// result is never a partial merge of the two, and failures are logged
// rather than surfaced: the caller always ends up with a renderable value.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

// ErrEmptyDocument is returned when a resource decodes to JSON null.
var ErrEmptyDocument = errors.New("loader: empty document")

// Logger receives one diagnostic record per failed load. echo.Logger
// satisfies it.
type Logger interface {
	Warnf(format string, args ...interface{})
}

var (
	defaultLogger   Logger = log.New("loader")
	defaultValidate        = validator.New()
)

type options struct {
	logger   Logger
	validate *validator.Validate
	lenient  bool
}

// Option configures a single load.
type Option func(*options)

// WithLogger routes diagnostics to l instead of the package logger.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithValidator replaces the validator used for struct tag checks.
func WithValidator(v *validator.Validate) Option {
	return func(o *options) {
		if v != nil {
			o.validate = v
		}
	}
}

// Lenient skips schema validation and key casing checks. A well-formed
// document with missing or miscased fields is then adopted as is.
func Lenient() Option {
	return func(o *options) {
		o.lenient = true
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: defaultLogger, validate: defaultValidate}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Result is the terminal outcome of a load.
type Result[T any] struct {
	Value T
	State State
	// Err is the cause of a fallback, nil when State is Loaded.
	Err error
}

// Load fetches location, decodes it as T and validates it. Any failure
// yields fallback with State FallbackLoaded.
func Load[T any](ctx context.Context, f Fetcher, location string, fallback T, opts ...Option) Result[T] {
	return LoadMapped(ctx, f, location, fallback, func(v T) (T, error) { return v, nil }, opts...)
}

// LoadMapped fetches location, decodes it as the wire shape R and maps it
// to the view shape T. A mapper error or panic counts as a load failure.
func LoadMapped[R, T any](ctx context.Context, f Fetcher, location string, fallback T, mapper func(R) (T, error), opts ...Option) Result[T] {
	o := buildOptions(opts)
	v, err := fetchAndMap(ctx, f, location, mapper, o)
	if err != nil {
		o.logger.Warnf("load %s failed, using fallback: %v", location, err)
		return Result[T]{Value: fallback, State: FallbackLoaded, Err: err}
	}
	return Result[T]{Value: v, State: Loaded}
}

func fetchAndMap[R, T any](ctx context.Context, f Fetcher, location string, mapper func(R) (T, error), o options) (T, error) {
	var zero T
	if f == nil {
		return zero, errors.New("loader: no fetcher configured")
	}
	body, err := f.Fetch(ctx, location)
	if err != nil {
		return zero, fmt.Errorf("fetch: %w", err)
	}
	raw, err := decode[R](body)
	if err != nil {
		return zero, err
	}
	if !o.lenient {
		if err := checkKeyCase(body, reflect.TypeFor[R]()); err != nil {
			return zero, fmt.Errorf("decode: %w", err)
		}
	}
	v, err := applyMapper(mapper, raw)
	if err != nil {
		return zero, err
	}
	if !o.lenient {
		if err := validateValue(o.validate, v); err != nil {
			return zero, fmt.Errorf("validate: %w", err)
		}
	}
	return v, nil
}

func decode[R any](body []byte) (R, error) {
	var raw R
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return raw, ErrEmptyDocument
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(&raw); err != nil {
		return raw, fmt.Errorf("decode: %w", err)
	}
	if dec.More() {
		return raw, errors.New("decode: trailing data after document")
	}
	return raw, nil
}

func applyMapper[R, T any](mapper func(R) (T, error), raw R) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("map: panic: %v", r)
		}
	}()
	v, err = mapper(raw)
	if err != nil {
		return v, fmt.Errorf("map: %w", err)
	}
	return v, nil
}

// validateValue runs struct tag validation on v, or on every element when
// v is a slice or array of structs. Other kinds pass unchecked.
func validateValue(validate *validator.Validate, v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ErrEmptyDocument
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		return validate.Struct(rv.Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return ErrEmptyDocument
		}
		for i := 0; i < rv.Len(); i++ {
			el := rv.Index(i)
			for el.Kind() == reflect.Pointer {
				if el.IsNil() {
					return fmt.Errorf("element %d: %w", i, ErrEmptyDocument)
				}
				el = el.Elem()
			}
			if el.Kind() != reflect.Struct {
				continue
			}
			if err := validate.Struct(el.Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
	}
	return nil
}
