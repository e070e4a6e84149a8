package logger

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lover33/elixir-omg/crypto"
)

func TestTxHashAttr(t *testing.T) {
	var hash [32]byte
	hash[31] = 0xAB
	a := TxHash(hash)
	require.Equal(t, TxHashKey, a.Key)
	require.Contains(t, a.Value.String(), "ab")
}

func TestAddressAttr(t *testing.T) {
	addr := crypto.BytesToAddress([]byte{1, 2, 3})
	a := Address("owner", addr)
	require.Equal(t, "owner", a.Key)
	require.Equal(t, addr.String(), a.Value.String())
}

func TestBlknumAttr(t *testing.T) {
	a := Blknum(1000)
	require.Equal(t, BlknumKey, a.Key)
	require.EqualValues(t, 1000, a.Value.Uint64())
}

func TestNewReplaceAttr(t *testing.T) {
	t.Run("text format leaves attributes alone", func(t *testing.T) {
		f := NewReplaceAttr(FormatText, "")
		require.Nil(t, f)
	})

	t.Run("wallet format strips everything but level, message, error", func(t *testing.T) {
		f := NewReplaceAttr(FormatWallet, "")
		require.NotNil(t, f)
		require.Equal(t, slog.LevelKey, f(nil, slog.Any(slog.LevelKey, "info")).Key)
		require.Equal(t, slog.Attr{}, f(nil, slog.String(BlknumKey, "1")))
	})

	t.Run("ecs format renames well-known keys", func(t *testing.T) {
		f := NewReplaceAttr(FormatECS, "")
		require.NotNil(t, f)
		a := f(nil, slog.Any(slog.MessageKey, "built"))
		require.Equal(t, "message", a.Key)
	})

	t.Run("time format none drops the timestamp under any output format", func(t *testing.T) {
		f := NewReplaceAttr(FormatWallet, "none")
		require.NotNil(t, f)
		require.Equal(t, slog.Attr{}, f(nil, slog.Time(slog.TimeKey, time.Now())))
	})
}

func Test_formatTimeAttr(t *testing.T) {
	t.Run("empty format string", func(t *testing.T) {
		f := formatTimeAttr("")
		require.Nil(t, f)
	})

	t.Run("format: none", func(t *testing.T) {
		f := formatTimeAttr("none")
		require.NotNil(t, f)
		now := time.Now()

		a := f(nil, slog.Time(slog.TimeKey, now))
		require.Equal(t, slog.Attr{}, a)

		a = f(nil, slog.Time("foo", now))
		require.True(t, a.Equal(slog.Time("foo", now)))
	})

	t.Run("format: format string", func(t *testing.T) {
		f := formatTimeAttr("15:04:05.0000")
		require.NotNil(t, f)

		a := f(nil, slog.Time(slog.TimeKey, time.Time{}))
		require.Equal(t, slog.Time(slog.TimeKey, time.Time{}), a)

		now := time.Now()
		a = f(nil, slog.Time(slog.TimeKey, now))
		require.Equal(t, now.Format("15:04:05.0000"), a.Value.String())

		a = f(nil, slog.Time("foo", now))
		require.True(t, a.Equal(slog.Time("foo", now)))
	})
}

func Test_composeAttrFmt(t *testing.T) {
	b0 := func(groups []string, a slog.Attr) slog.Attr { return slog.Int64(a.Key, a.Value.Int64()+1) }
	b1 := func(groups []string, a slog.Attr) slog.Attr { return slog.Int64(a.Key, a.Value.Int64()+2) }
	b2 := func(groups []string, a slog.Attr) slog.Attr { return slog.Int64(a.Key, a.Value.Int64()+4) }
	b3 := func(groups []string, a slog.Attr) slog.Attr { return slog.Int64(a.Key, a.Value.Int64()+8) }

	require.Nil(t, composeAttrFmt())
	require.Nil(t, composeAttrFmt(nil))
	require.Nil(t, composeAttrFmt(nil, nil))
	require.Nil(t, composeAttrFmt(nil, nil, nil))

	f := composeAttrFmt(b0)
	require.NotNil(t, f)
	a := f(nil, slog.Int64("test", 0))
	require.EqualValues(t, 1, a.Value.Int64())

	f = composeAttrFmt(b0, b1, b2, b3)
	require.NotNil(t, f)
	a = f(nil, slog.Int64("test", 0))
	require.EqualValues(t, 15, a.Value.Int64())
}

func Test_dataName(t *testing.T) {
	type myData struct {
		v int
	}
	var clv customLogValuer = 4

	var testCases = []struct {
		value slog.Value
		name  string
	}{
		{value: slog.BoolValue(true), name: "Bool"},
		{value: slog.IntValue(32), name: "Int64"},
		{value: slog.StringValue("foobar"), name: "String"},
		{value: slog.AnyValue(myData{42}), name: "logger_myData"},
		{value: slog.AnyValue(&myData{42}), name: "logger_myData"},
		{value: slog.AnyValue(customLogValuer(2)), name: "logger_customLogValuer"},
		{value: slog.AnyValue(&clv), name: "logger_customLogValuer"},
	}

	for n, tc := range testCases {
		if name := dataName(tc.value); tc.name != name {
			t.Errorf("[%d] expected %q got %q for %#v", n, tc.name, name, tc.value.Any())
		}
	}
}

func Test_formatDataAttrAsJSON(t *testing.T) {
	type SampleData struct {
		Name  string
		Value string
	}

	jsonFmt := formatDataAttrAsJSON(nil, slog.Any(DataKey, &SampleData{Name: "Test", Value: "JSON"}))
	require.Equal(t, DataKey, jsonFmt.Key)
	require.Equal(t, `{"Name":"Test","Value":"JSON"}`, jsonFmt.Value.String())
}

func Test_formatAttrWallet(t *testing.T) {
	sampleData := "sample data"
	walletFmt := formatAttrWallet(nil, slog.Any(slog.LevelKey, sampleData))
	require.Equal(t, slog.LevelKey, walletFmt.Key)

	emptyFmt := formatAttrWallet(nil, slog.Any(slog.TimeKey, sampleData))
	require.Equal(t, slog.Attr{}, emptyFmt)
}

func Test_formatAttrECS(t *testing.T) {
	sampleData := "sample data"
	testFmt := formatAttrECS(nil, slog.Any(slog.MessageKey, sampleData))
	require.Equal(t, "message", testFmt.Key)
	require.Equal(t, sampleData, testFmt.Value.String())

	testFmt = formatAttrECS(nil, slog.Any(ErrorKey, sampleData))
	require.Equal(t, "error", testFmt.Key)
	require.Equal(t, "message", testFmt.Value.Group()[0].Key)

	testFmt = formatAttrECS(nil, slog.Any(DataKey, sampleData))
	require.Equal(t, DataKey, testFmt.Key)
	require.Equal(t, "String", testFmt.Value.Group()[0].Key)

	testFmt = formatAttrECS(nil, slog.Any(traceID, sampleData))
	require.Equal(t, "trace", testFmt.Key)

	testFmt = formatAttrECS(nil, slog.Any(spanID, sampleData))
	require.Equal(t, "span", testFmt.Key)
}

type customLogValuer int

func (clv customLogValuer) LogValue() slog.Value {
	return slog.IntValue(int(clv))
}
