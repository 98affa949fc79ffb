package player

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// LoadFlag selects where loadfile puts the new item in mpv's playlist.
type LoadFlag string

const (
	Replace    LoadFlag = "replace"
	AppendPlay LoadFlag = "append-play"
	Append     LoadFlag = "append"
)

// Command is anything that can be sent to mpv as a JSON IPC request.
type Command interface {
	// request returns the value stored under the "command" key.
	request() any
}

// ipcRequest is the JSON structure sent to mpv's IPC endpoint.
type ipcRequest struct {
	Command any `json:"command"`
}

// Encode serializes a command into one newline-terminated protocol frame.
func Encode(cmd Command) ([]byte, error) {
	payload, err := json.Marshal(ipcRequest{Command: cmd.request()})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return append(payload, '\n'), nil
}

// Options are per-file options passed along with loadfile.
type Options map[string]string

// Encode joins the options as comma separated key=value pairs, sorted by key.
// Unless plain is set, values are length prefixed (key=%N%value) so that commas
// and other delimiters inside paths survive.
func (o Options) Encode(plain bool) string {
	keys := lo.Keys(o)
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}

		v := o[k]
		b.WriteString(k)
		b.WriteByte('=')
		if !plain {
			b.WriteString("%" + strconv.Itoa(len(v)) + "%")
		}
		b.WriteString(v)
	}

	return b.String()
}

// DecodeOptions parses an encoded option string. Length-prefixed values are
// read by position, so they may contain commas; plain values end at the next comma.
func DecodeOptions(s string) (Options, error) {
	opts := make(Options)

	for len(s) > 0 {
		eq := strings.IndexByte(s, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("%w: option without key in %q", ErrProtocolDecode, s)
		}
		k := s[:eq]
		s = s[eq+1:]

		var v string
		if strings.HasPrefix(s, "%") {
			end := strings.IndexByte(s[1:], '%')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated length prefix for %s", ErrProtocolDecode, k)
			}

			n, err := strconv.Atoi(s[1 : end+1])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: bad length prefix for %s", ErrProtocolDecode, k)
			}

			s = s[end+2:]
			if n > len(s) {
				return nil, fmt.Errorf("%w: value of %s shorter than %d bytes", ErrProtocolDecode, k, n)
			}
			v, s = s[:n], s[n:]
		} else {
			comma := strings.IndexByte(s, ',')
			if comma < 0 {
				comma = len(s)
			}
			v, s = s[:comma], s[comma:]
		}

		opts[k] = v

		if len(s) > 0 {
			if s[0] != ',' {
				return nil, fmt.Errorf("%w: expected ',' after %s", ErrProtocolDecode, k)
			}
			s = s[1:]
		}
	}

	return opts, nil
}

// LoadFile is mpv's loadfile command in its named-argument form.
type LoadFile struct {
	URL     string
	Flags   LoadFlag
	Index   *int
	Options Options

	// Plain disables the length-prefixed option encoding.
	Plain bool
}

func (l LoadFile) request() any {
	flags := l.Flags
	if flags == "" {
		flags = Replace
	}

	return struct {
		Name    string   `json:"name"`
		URL     string   `json:"url"`
		Flags   LoadFlag `json:"flags"`
		Index   *int     `json:"index,omitempty"`
		Options string   `json:"options,omitempty"`
	}{
		Name:    "loadfile",
		URL:     l.URL,
		Flags:   flags,
		Index:   l.Index,
		Options: l.Options.Encode(l.Plain),
	}
}

// ObserveProperty subscribes the sending connection to changes of a property.
// Notifications carry ID back in their "id" field.
type ObserveProperty struct {
	ID   int
	Name string
}

func (o ObserveProperty) request() any {
	return []any{"observe_property", o.ID, o.Name}
}

// RunCommand is any mpv input command with string arguments.
type RunCommand struct {
	Name string
	Args []string
}

func (r RunCommand) request() any {
	return append([]any{r.Name}, lo.ToAnySlice(r.Args)...)
}

// AudioAdd attaches an external audio file to the current item and selects it.
func AudioAdd(path string) RunCommand {
	return RunCommand{Name: "audio-add", Args: []string{path, "select"}}
}

// SubAdd attaches an external subtitle file to the current item and selects it.
func SubAdd(path string) RunCommand {
	return RunCommand{Name: "sub-add", Args: []string{path, "select"}}
}

// Quit asks mpv to exit.
func Quit() RunCommand {
	return RunCommand{Name: "quit"}
}
