package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/karaberus/karaplay/icon"
	"github.com/karaberus/karaplay/key"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// ErrInvalidValue is returned when a value is outside what its key accepts.
var ErrInvalidValue = errors.New("invalid value")

// ErrUnknownKey is returned for keys that are not registered.
var ErrUnknownKey = errors.New("unknown key")

type validator func(v any) error

func oneOf(options ...string) validator {
	return func(v any) error {
		if s, ok := v.(string); ok && lo.Contains(options, s) {
			return nil
		}
		return fmt.Errorf("%w: %q, expected one of %s", ErrInvalidValue, v, strings.Join(options, ", "))
	}
}

func atLeast(floor int) validator {
	return func(v any) error {
		if n, ok := v.(int); ok && n >= floor {
			return nil
		}
		return fmt.Errorf("%w: %v, must be at least %d", ErrInvalidValue, v, floor)
	}
}

var validators = map[string]validator{
	key.PlayerIdle:         oneOf("yes", "once", "no"),
	key.PlayerQuitGrace:    atLeast(0),
	key.IPCConnectRetries:  atLeast(1),
	key.IPCRetryDelay:      atLeast(0),
	key.IPCResponseTimeout: atLeast(0),
	key.HistoryLimit:       atLeast(0),
	key.IconsVariant:       oneOf(icon.AvailableVariants()...),
	key.LogsLevel: func(v any) error {
		if _, err := logrus.ParseLevel(fmt.Sprint(v)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return nil
	},
	key.PlayerBinary: func(v any) error {
		if strings.TrimSpace(fmt.Sprint(v)) == "" {
			return fmt.Errorf("%w: the mpv binary cannot be empty", ErrInvalidValue)
		}
		return nil
	},
}

// Closest returns the registered key nearest to k by edit distance.
func Closest(k string) string {
	return lo.MinBy(lo.Keys(Default), func(a, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})
}

// Parse converts raw command line values into the type of key k and
// checks them against what k accepts.
func Parse(k string, raw []string) (any, error) {
	field, ok := Default[k]
	if !ok {
		return nil, fmt.Errorf("%w %s, did you mean %s?", ErrUnknownKey, k, Closest(k))
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s needs a value", ErrInvalidValue, k)
	}

	var v any
	switch field.Value.(type) {
	case string:
		v = raw[0]
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects an integer, got %q", ErrInvalidValue, k, raw[0])
		}
		v = n
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects true or false, got %q", ErrInvalidValue, k, raw[0])
		}
		v = b
	case []string:
		v = raw
	}

	if err := Validate(k, v); err != nil {
		return nil, err
	}

	return v, nil
}

// Validate checks v against the constraints of key k. Keys without
// constraints accept any value of their type.
func Validate(k string, v any) error {
	check, ok := validators[k]
	if !ok {
		return nil
	}

	if err := check(v); err != nil {
		return fmt.Errorf("%s: %w", k, err)
	}
	return nil
}

// Check validates the current value of key k, as read from the config
// file and environment.
func Check(k string) error {
	switch Default[k].Value.(type) {
	case string:
		return Validate(k, viper.GetString(k))
	case int:
		return Validate(k, viper.GetInt(k))
	default:
		return nil
	}
}

// Problems checks every registered key.
func Problems() []error {
	var problems []error
	for k := range Default {
		if err := Check(k); err != nil {
			problems = append(problems, err)
		}
	}

	sort.Slice(problems, func(i, j int) bool {
		return problems[i].Error() < problems[j].Error()
	})
	return problems
}
