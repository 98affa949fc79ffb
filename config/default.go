// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/karaberus/karaplay/color"
	"github.com/karaberus/karaplay/constant"
	"github.com/karaberus/karaplay/key"
	"github.com/karaberus/karaplay/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Effective   any    `json:"effective,omitempty"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Effective:   InUse(f.Key),
		Description: f.Description,
		Type:        f.typeName(),
	})
}

var effective = make(map[string]func() any)

// SetEffective registers how the value actually in use for key k is derived,
// for keys whose empty setting stands for a computed default.
func SetEffective(k string, resolve func() any) {
	effective[k] = resolve
}

// InUse returns the derived value for key k, or nil when k has none.
func InUse(k string) any {
	if resolve, ok := effective[k]; ok {
		return resolve()
	}
	return nil
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.PlayerBinary, "mpv", "Path or name of the mpv executable")
	register(key.PlayerSocket, "", "IPC endpoint used to control mpv.\nEmpty selects a platform default (named pipe on Windows, runtime dir socket elsewhere)")
	register(key.PlayerIdle, "yes", "Value passed to mpv --idle.\n\"once\" makes mpv exit on its own after the first file, before queued bundles can be loaded")
	register(key.PlayerArgs, []string{}, "Extra arguments appended to the mpv command line")
	register(key.PlayerQuitGrace, 3000, "Milliseconds to wait for mpv to exit after quit before killing it")
	register(key.IPCConnectRetries, 5, "Connection attempts to the mpv IPC endpoint before a command is dropped")
	register(key.IPCRetryDelay, 200, "Milliseconds between IPC connection attempts")
	register(key.IPCResponseTimeout, 2000, "Milliseconds to wait for a reply to an IPC command.\n0 waits forever")
	register(key.HistorySave, true, "Record played bundles in the history file")
	register(key.HistoryLimit, 100, "Maximum number of history entries kept")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":     style.Faint,
	"bold":      style.Bold,
	"purple":    style.Fg(color.Purple),
	"blue":      style.Fg(color.Blue),
	"cyan":      style.Fg(color.Cyan),
	"value":     func(k string) any { return viper.Get(k) },
	"effective": InUse,
	"typename":  func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}{{ with effective .Key }}
{{ blue "In use:" }}  {{ hl . }}{{ end }}`))
