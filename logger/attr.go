/*
Package logger provides slog attribute constructors and handler-level
attribute formatters for this repo's domain objects (transaction hashes,
addresses, block numbers), plus the generic attribute-formatting
machinery ambient to any slog-based service: time formatting, "data as
JSON" for structured payloads, and a minimal ECS-ish rename for shipping
logs to Elastic.

Generally shouldn't be used directly, use the appropriate attribute
constructor function instead.
*/
package logger

import (
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/lover33/elixir-omg/crypto"
)

const (
	ModuleKey  = "module"
	GoIDKey    = "go_id"
	ErrorKey   = "err"
	BlknumKey  = "blknum"
	AddressKey = "address"
	TxHashKey  = "tx_hash"
	DataKey    = "data"

	traceID = "TraceId" // OTEL data model
	spanID  = "SpanId"  // OTEL data model
)

// Error adds error to the log.
//
//	if err := f(); err != nil {
//		log.Error("calling f", logger.Error(err))
//	}
func Error(err error) slog.Attr {
	return slog.Any(ErrorKey, err)
}

// Data adds additional data field to the message.
//
// slog.GroupValue shouldn't be used as the data - in the ECS formatter all
// groups will end up under the same key possibly causing problems with index!
func Data(d any) slog.Attr {
	return slog.Any(DataKey, d)
}

// TxHash logs a transaction's canonical hash, hex encoded.
func TxHash(hash [32]byte) slog.Attr {
	return slog.String(TxHashKey, hex.EncodeToString(hash[:]))
}

// Address logs an on-chain address under key.
func Address(key string, addr crypto.Address) slog.Attr {
	return slog.String(key, addr.String())
}

// Blknum logs the block number a transaction or input belongs to.
func Blknum(blknum uint64) slog.Attr {
	return slog.Uint64(BlknumKey, blknum)
}

// Known values for the CLI's --log-format flag.
const (
	FormatText   = "text"
	FormatWallet = "wallet"
	FormatECS    = "ecs"
)

// NewReplaceAttr builds the slog.HandlerOptions.ReplaceAttr function for the
// named format and time layout, for wiring into a handler constructed by a
// caller such as cmd/omgtx. FormatText (the default) only applies
// timeFormat, if given. FormatWallet strips everything but level, message
// and error, for a human running the CLI interactively. FormatECS renames
// well-known attributes to the Elastic Common Schema shape and flattens
// Data as JSON, for shipping logs to a log pipeline. timeFormat of "none"
// drops the time attribute entirely; empty leaves the handler's default.
func NewReplaceAttr(format, timeFormat string) func(groups []string, a slog.Attr) slog.Attr {
	timeFmt := formatTimeAttr(timeFormat)
	switch format {
	case FormatWallet:
		return composeAttrFmt(timeFmt, formatAttrWallet)
	case FormatECS:
		return composeAttrFmt(timeFmt, formatDataAttrAsJSON, formatAttrECS)
	default:
		return timeFmt
	}
}

/*
composeAttrFmt combines attribute formatters into single func.
If input contains nil values those are discarded.
*/
func composeAttrFmt(f ...func(groups []string, a slog.Attr) slog.Attr) func(groups []string, a slog.Attr) slog.Attr {
	f = slices.DeleteFunc(f, func(f func(groups []string, a slog.Attr) slog.Attr) bool { return f == nil })
	switch len(f) {
	case 0:
		return nil
	case 1:
		return f[0]
	case 2:
		f0, f1 := f[0], f[1]
		return func(groups []string, a slog.Attr) slog.Attr {
			return f1(groups, f0(groups, a))
		}
	case 3:
		f0, f1, f2 := f[0], f[1], f[2]
		return func(groups []string, a slog.Attr) slog.Attr {
			return f2(groups, f1(groups, f0(groups, a)))
		}
	default:
		return composeAttrFmt(composeAttrFmt(f[:3]...), composeAttrFmt(f[3:]...))
	}
}

func formatTimeAttr(format string) func(groups []string, a slog.Attr) slog.Attr {
	switch format {
	case "":
		// whatever handler does by default...
		return nil
	case "none":
		return func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}
	default:
		return func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t := a.Value.Time(); !t.IsZero() {
					a.Value = slog.StringValue(t.Format(format))
				}
			}
			return a
		}
	}
}

func formatDataAttrAsJSON(groups []string, a slog.Attr) slog.Attr {
	if a.Key == DataKey {
		switch a.Value.Kind() {
		case slog.KindAny:
			if b, err := json.Marshal(a.Value.Any()); err == nil {
				a.Value = slog.StringValue(string(b))
			}
		}
	}
	return a
}

/*
formatAttrWallet strips everything except a minimal set of attributes so
that the log output is minimal (better suited for end users of cmd/omgtx).
*/
func formatAttrWallet(groups []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.LevelKey, slog.MessageKey, ErrorKey:
		return a
	default:
		return slog.Attr{}
	}
}

/*
formatAttrECS is a "poor man's ECS handler" ie it formats some well known
attributes according to the ECS spec.
*/
func formatAttrECS(groups []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.MessageKey:
		return slog.String("message", a.Value.String())
	case slog.SourceKey:
		if src, ok := a.Value.Any().(*slog.Source); ok {
			trimSource(src)
			return slog.Group(
				"log",
				slog.Group(
					"origin",
					slog.String("function", src.Function),
					slog.Group("file", slog.String("name", src.File), slog.Int("line", src.Line)),
				),
			)
		}
	case ErrorKey:
		return slog.Group("error", slog.Any("message", a.Value.Any()))
	case DataKey:
		// to keep Elastic happy we nest the actual value under its type name, namespacing it.
		// as ie `data:"string value"` and `data: 42` would cause a type conflict in an Elastic index.
		return slog.Group(DataKey, slog.Any(dataName(a.Value), a.Value))
	case traceID:
		return slog.Group("trace", slog.String("id", a.Value.String()))
	case spanID:
		return slog.Group("span", slog.String("id", a.Value.String()))
	}
	return a
}

/*
dataName returns the name of the data type of "v", suitable to act as a
"namespace" for the value in ECS format. There is basically no restriction
for key names in JSON but this func attempts to do some sanitizing to make
querying the resulting JSON a bit easier.
*/
func dataName(v slog.Value) string {
	switch v.Kind() {
	case slog.KindAny, slog.KindLogValuer:
		a := v.Any()
		// for anonymous types reflect.TypeOf(a).String() returns the type
		// def, ie "struct { Str string; Int int }" which is valid but not a
		// nice JSON key. For now we do not worry about that.
		rt := reflect.TypeOf(a)
		return strings.ReplaceAll(strings.TrimLeft(rt.String(), "*"), ".", "_")
	default:
		return v.Kind().String()
	}
}

/*
trimSource shortens the "function" name field in "src" by trimming the
package name from it.
*/
func trimSource(src *slog.Source) {
	_, src.Function = filepath.Split(src.Function)
	if s := strings.SplitAfterN(src.Function, ".", 2); len(s) == 2 {
		src.Function = s[1]
	}
}
