package converter

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/encconv/econv"
	"github.com/wippyai/encconv/encoding"
	encerrors "github.com/wippyai/encconv/errors"
)

func mustNew(t *testing.T, src, dst string, opts ...Option) *Converter {
	t.Helper()
	c, err := New(src, dst, opts...)
	if err != nil {
		t.Fatalf("New(%s, %s): %v", src, dst, err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestPrimitiveConvert_FixedSize(t *testing.T) {
	c := mustNew(t, "UTF-8", "UTF-16BE")
	src := NewBuffer(c.Source(), []byte("caf\xC3\xA9"))
	dst := NewBuffer(nil, nil)

	res, err := c.PrimitiveConvert(src, dst, 0, 2, 0)
	if err != nil {
		t.Fatalf("PrimitiveConvert: %v", err)
	}
	if res != econv.DestinationBufferFull {
		t.Fatalf("result = %v, want destination_buffer_full", res)
	}
	if diff := cmp.Diff([]byte{0x00, 'c'}, dst.Bytes()); diff != "" {
		t.Errorf("dst mismatch (-want +got):\n%s", diff)
	}
	if src.String() != "af\xC3\xA9" {
		t.Errorf("src remainder = %q", src.String())
	}
	if dst.Encoding().Name != "UTF-16BE" {
		t.Errorf("dst encoding = %v", dst.Encoding())
	}

	// offset 0 appends
	res, err = c.PrimitiveConvert(src, dst, 0, 100, 0)
	if err != nil || res != econv.Finished {
		t.Fatalf("second call = %v, %v", res, err)
	}
	if diff := cmp.Diff([]byte("\x00c\x00a\x00f\x00\xE9"), dst.Bytes()); diff != "" {
		t.Errorf("dst mismatch (-want +got):\n%s", diff)
	}
	if src.Len() != 0 {
		t.Errorf("src not consumed: %q", src.String())
	}
}

func TestPrimitiveConvert_UTF16WithBOM(t *testing.T) {
	c := mustNew(t, "UTF-8", "UTF-16")
	src := NewBuffer(c.Source(), []byte{0x63, 0x61, 0x66, 0xC3, 0xA9})
	dst := NewBuffer(nil, nil)

	res, err := c.PrimitiveConvert(src, dst, 0, 2, 0)
	if err != nil {
		t.Fatalf("PrimitiveConvert: %v", err)
	}
	if res != econv.DestinationBufferFull {
		t.Fatalf("result = %v, want destination_buffer_full", res)
	}
	if diff := cmp.Diff([]byte{0xFE, 0xFF}, dst.Bytes()); diff != "" {
		t.Errorf("dst mismatch (-want +got):\n%s", diff)
	}
	if src.String() != "af\xC3\xA9" {
		t.Errorf("src remainder = %q", src.String())
	}

	res, err = c.PrimitiveConvert(src, dst, 0, -1, 0)
	if err != nil || res != econv.Finished {
		t.Fatalf("second call = %v, %v", res, err)
	}
	want := []byte{0xFE, 0xFF, 0x00, 'c', 0x00, 'a', 0x00, 'f', 0x00, 0xE9}
	if diff := cmp.Diff(want, dst.Bytes()); diff != "" {
		t.Errorf("dst mismatch (-want +got):\n%s", diff)
	}
}

func TestPrimitiveConvert_SmallFixedSize(t *testing.T) {
	tests := []struct {
		name     string
		src, dst string
		flags    econv.Flags
		in       string
		size     int
	}{
		{"utf-16 ascii", "UTF-8", "UTF-16BE", 0, "ab", 1},
		{"surrogate pair", "UTF-8", "UTF-16BE", 0, "\U0001F600", 2},
		{"surrogate pair one byte", "UTF-8", "UTF-16LE", 0, "x\U0001F600y", 1},
		{"byte order mark", "UTF-8", "UTF-16", 0, "é", 1},
		{"utf-32 mark", "UTF-8", "UTF-32", 0, "ab", 3},
		{"stateful multi stage", "UTF-8", "ISO-2022-JP", 0, "日本", 3},
		{"stateful one byte", "UTF-8", "ISO-2022-JP", 0, "a日本b語", 1},
		{"to utf-8", "Shift_JIS", "UTF-8", 0, "\x93\xfa\x96\x7b", 1},
		{"attr quote", "UTF-8", "UTF-8", econv.XMLAttrContent | econv.XMLAttrQuote, "a<\"b", 1},
		{"replacement", "UTF-8", "UTF-16BE", econv.InvalidReplace, "a\xFFb", 1},
		{"hex charref", "UTF-8", "US-ASCII", econv.UndefHexCharref, "€", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := mustNew(t, tt.src, tt.dst, WithFlags(tt.flags))
			want := NewBuffer(nil, nil)
			if res, err := ref.PrimitiveConvert(NewBuffer(nil, []byte(tt.in)), want, 0, -1, 0); err != nil || res != econv.Finished {
				t.Fatalf("reference conversion = %v, %v", res, err)
			}

			c := mustNew(t, tt.src, tt.dst, WithFlags(tt.flags))
			src := NewBuffer(nil, []byte(tt.in))
			dst := NewBuffer(nil, nil)
			calls := 0
			for {
				res, err := c.PrimitiveConvert(src, dst, 0, tt.size, 0)
				if err != nil {
					t.Fatalf("PrimitiveConvert: %v", err)
				}
				calls++
				if res == econv.Finished {
					break
				}
				if res != econv.DestinationBufferFull {
					t.Fatalf("result = %v after %d calls", res, calls)
				}
				if calls > 4*want.Len()+4 {
					t.Fatalf("no progress after %d calls, dst = % X", calls, dst.Bytes())
				}
			}
			if diff := cmp.Diff(want.Bytes(), dst.Bytes()); diff != "" {
				t.Errorf("dst mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewBuffer_SpareCapacity(t *testing.T) {
	c := mustNew(t, "UTF-8", "UTF-16BE")
	backing := make([]byte, 16)
	copy(backing, "ab")
	dst := NewBuffer(nil, backing[:2])

	res, err := c.PrimitiveConvert(NewBuffer(nil, []byte("cd")), dst, 0, 10, 0)
	if err != nil || res != econv.Finished {
		t.Fatalf("PrimitiveConvert = %v, %v", res, err)
	}
	if dst.String() != "ab\x00c\x00d" {
		t.Errorf("dst = %q", dst.String())
	}
	if diff := cmp.Diff(make([]byte, 14), backing[2:]); diff != "" {
		t.Errorf("spare capacity written (-want +got):\n%s", diff)
	}
}

func TestPrimitiveConvert_Offset(t *testing.T) {
	c := mustNew(t, "UTF-8", "UTF-16BE")
	dst := NewBuffer(nil, []byte("xxxx"))

	res, err := c.PrimitiveConvert(NewBuffer(nil, []byte("h")), dst, 2, 10, 0)
	if err != nil || res != econv.Finished {
		t.Fatalf("PrimitiveConvert = %v, %v", res, err)
	}
	if dst.String() != "xx\x00h" {
		t.Errorf("dst = %q", dst.String())
	}
	if dst.Cap() < 12 {
		t.Errorf("cap = %d, want at least 12", dst.Cap())
	}
}

func TestPrimitiveConvert_Growth(t *testing.T) {
	c := mustNew(t, "UTF-8", "UTF-32BE")
	src := NewBuffer(nil, bytes.Repeat([]byte("a"), 1000))
	dst := NewBuffer(nil, nil)

	res, err := c.PrimitiveConvert(src, dst, 0, -1, 0)
	if err != nil {
		t.Fatalf("PrimitiveConvert: %v", err)
	}
	if res != econv.Finished {
		t.Fatalf("result = %v, want finished", res)
	}
	if dst.Len() != 4000 || src.Len() != 0 {
		t.Errorf("dst len %d, src len %d", dst.Len(), src.Len())
	}
	if !bytes.Equal(dst.Bytes()[:8], []byte{0, 0, 0, 'a', 0, 0, 0, 'a'}) {
		t.Errorf("dst prefix = % x", dst.Bytes()[:8])
	}
}

func TestPrimitiveConvert_GrowthFromSmallSource(t *testing.T) {
	c := mustNew(t, "UTF-8", "UTF-16LE")
	dst := NewBuffer(nil, nil)

	res, err := c.PrimitiveConvert(NewBuffer(nil, []byte("abcdefghijkl")), dst, 0, -1, 0)
	if err != nil || res != econv.Finished {
		t.Fatalf("PrimitiveConvert = %v, %v", res, err)
	}
	if dst.Len() != 24 {
		t.Errorf("dst len = %d, want 24", dst.Len())
	}
}

func TestPrimitiveConvert_NilSource(t *testing.T) {
	c := mustNew(t, "ISO-2022-JP", "UTF-8")
	dst := NewBuffer(nil, nil)
	res, err := c.PrimitiveConvert(nil, dst, 0, -1, 0)
	if err != nil || res != econv.Finished {
		t.Fatalf("PrimitiveConvert = %v, %v", res, err)
	}
	if dst.Len() != 0 {
		t.Errorf("dst = %q", dst.String())
	}
}

func TestPrimitiveConvert_ArgumentErrors(t *testing.T) {
	tests := []struct {
		name   string
		max    int
		dst    string
		offset int
		size   int
		src    string
		want   error
	}{
		{"offset past end", 0, "ab", 5, 10, "x", ErrOffsetTooBig},
		{"offset plus size", 32, "abcd", 4, 30, "x", ErrOffsetSizeTooBig},
		{"growth overflow", 64, "", 0, -1, strings.Repeat("a", 40), ErrConversionTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.max > 0 {
				opts = append(opts, WithMaxBufferSize(tt.max))
			}
			c := mustNew(t, "UTF-8", "UTF-16BE", opts...)
			dst := NewBuffer(nil, []byte(tt.dst))
			src := NewBuffer(nil, []byte(tt.src))

			_, err := c.PrimitiveConvert(src, dst, tt.offset, tt.size, 0)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if tt.want == ErrConversionTooLong {
				return
			}
			if dst.String() != tt.dst || dst.Encoding() != nil {
				t.Errorf("dst mutated: %q %v", dst.String(), dst.Encoding())
			}
			if src.String() != tt.src {
				t.Errorf("src mutated: %q", src.String())
			}
		})
	}
}

func TestPrimitiveConvert_NeverFullWhenGrowing(t *testing.T) {
	c := mustNew(t, "UTF-8", "UTF-16BE")
	for _, n := range []int{0, 1, 15, 16, 17, 100, 4097} {
		src := NewBuffer(nil, bytes.Repeat([]byte("\xE2\x82\xAC"), n))
		dst := NewBuffer(nil, nil)
		res, err := c.PrimitiveConvert(src, dst, 0, -1, 0)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if res != econv.Finished {
			t.Errorf("n=%d: result = %v", n, res)
		}
		if dst.Len() != 2*n {
			t.Errorf("n=%d: dst len = %d", n, dst.Len())
		}
	}
}

func TestPutback_IncompleteInput(t *testing.T) {
	c := mustNew(t, "UTF-8", "UTF-16BE")
	src := NewBuffer(nil, []byte{0xC3})

	res, err := c.PrimitiveConvert(src, NewBuffer(nil, nil), 0, -1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res != econv.IncompleteInput {
		t.Fatalf("result = %v, want incomplete_input", res)
	}
	if c.Putbackable() != 1 {
		t.Errorf("Putbackable() = %d", c.Putbackable())
	}
	for n := 0; n < 2; n++ {
		pb := c.Putback(1)
		if diff := cmp.Diff([]byte{0xC3}, pb.Bytes()); diff != "" {
			t.Errorf("putback mismatch (-want +got):\n%s", diff)
		}
		if pb.Encoding().Name != encoding.UTF8 {
			t.Errorf("putback encoding = %v", pb.Encoding())
		}
	}
}

func TestPutback_TrailingMultibyte(t *testing.T) {
	c := mustNew(t, "EUC-JP", "UTF-8")
	src := NewBuffer(nil, []byte("a\xA4"))

	res, err := c.PrimitiveConvert(src, NewBuffer(nil, nil), 0, -1, econv.PartialInput)
	if err != nil || res != econv.SourceBufferEmpty {
		t.Fatalf("PrimitiveConvert = %v, %v", res, err)
	}
	if got := c.PutbackAll().String(); got != "\xA4" {
		t.Errorf("PutbackAll() = %q", got)
	}
	if got := c.Putback(0).Len(); got != 0 {
		t.Errorf("Putback(0) len = %d", got)
	}
}

func TestLastError(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  []any
		info  [5]any
		isNil bool
	}{
		{
			name:  "clean",
			src:   "abc",
			isNil: true,
			info:  [5]any{econv.Finished},
		},
		{
			name: "incomplete",
			src:  "\xC3",
			want: []any{econv.IncompleteInput, "UTF-8", "UTF-16BE", []byte{0xC3}},
			info: [5]any{econv.IncompleteInput, "UTF-8", "UTF-16BE", []byte{0xC3}, nil},
		},
		{
			name: "read again",
			src:  "\xF1abc",
			want: []any{econv.InvalidByteSequence, "UTF-8", "UTF-16BE", []byte{0xF1}, []byte("a")},
			info: [5]any{econv.InvalidByteSequence, "UTF-8", "UTF-16BE", []byte{0xF1}, []byte("a")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustNew(t, "UTF-8", "UTF-16BE")
			if _, err := c.PrimitiveConvert(NewBuffer(nil, []byte(tt.src)), NewBuffer(nil, nil), 0, -1, 0); err != nil {
				t.Fatal(err)
			}

			rec := c.LastError()
			if tt.isNil {
				if rec != nil {
					t.Errorf("LastError() = %+v, want nil", rec)
				}
			} else if diff := cmp.Diff(tt.want, rec.Slots()); diff != "" {
				t.Errorf("slots mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.info, c.Errinfo()); diff != "" {
				t.Errorf("errinfo mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestErrinfo_Fresh(t *testing.T) {
	c := mustNew(t, "UTF-8", "EUC-KR")
	want := [5]any{econv.SourceBufferEmpty}
	if diff := cmp.Diff(want, c.Errinfo()); diff != "" {
		t.Errorf("errinfo mismatch (-want +got):\n%s", diff)
	}
	if c.LastError() != nil {
		t.Error("LastError() on fresh converter is not nil")
	}
}

func TestConvert_Chunks(t *testing.T) {
	c := mustNew(t, "Shift_JIS", "UTF-8")
	var out []byte
	for _, chunk := range []string{"\x93\xfa", "\x96", "\x7b", ""} {
		got, err := c.Convert([]byte(chunk))
		if err != nil {
			t.Fatalf("Convert(%q): %v", chunk, err)
		}
		out = append(out, got...)
	}
	tail, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	out = append(out, tail...)
	if string(out) != "日本" {
		t.Errorf("output = %q", out)
	}
}

func TestConvert_ErrorAndResume(t *testing.T) {
	c := mustNew(t, "UTF-8", "UTF-16BE")

	out, err := c.Convert([]byte("a\xFFb"))
	if !errors.Is(err, &encerrors.Error{Phase: encerrors.PhaseConvert, Kind: encerrors.KindInvalidByteSequence}) {
		t.Fatalf("error = %v, want invalid byte sequence", err)
	}
	var ee *encerrors.Error
	if !errors.As(err, &ee) {
		t.Fatalf("error type %T", err)
	}
	le, ok := ee.Value.(econv.LastError)
	if !ok || !bytes.Equal(le.ErrorBytes, []byte{0xFF}) {
		t.Errorf("error value = %#v", ee.Value)
	}
	if string(out) != "\x00a" {
		t.Errorf("output before error = %q", out)
	}

	out, err = c.Convert([]byte("c"))
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if string(out) != "\x00b\x00c" {
		t.Errorf("resumed output = %q", out)
	}
}

func TestFinish_Incomplete(t *testing.T) {
	c := mustNew(t, "UTF-16LE", "UTF-8")
	if _, err := c.Convert([]byte("a\x00b")); err != nil {
		t.Fatal(err)
	}
	_, err := c.Finish()
	if !errors.Is(err, &encerrors.Error{Phase: encerrors.PhaseConvert, Kind: encerrors.KindIncompleteInput}) {
		t.Errorf("Finish error = %v, want incomplete input", err)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		enc  string
		text string
	}{
		{"UTF-16BE", "emoji \U0001F600 and text"},
		{"UTF-16LE", "café"},
		{"UTF-32BE", "über \U0001F680"},
		{"UTF-32LE", "plain"},
		{"US-ASCII", "plain ascii"},
		{"ISO-8859-1", "café naïve"},
		{"ISO-8859-7", "Ελλάδα"},
		{"Windows-1251", "привет"},
		{"KOI8-R", "привет"},
		{"Shift_JIS", "日本語 abc"},
		{"EUC-JP", "日本語 abc"},
		{"ISO-2022-JP", "日本語 abc 日本"},
		{"GBK", "中文 text"},
		{"GB18030", "中文 \U0001F600"},
		{"EUC-KR", "한국어"},
		{"Big5", "中文"},
	}

	for _, tt := range tests {
		t.Run(tt.enc, func(t *testing.T) {
			enc := mustNew(t, "UTF-8", tt.enc)
			encoded, err := enc.Convert([]byte(tt.text))
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			tail, err := enc.Finish()
			if err != nil {
				t.Fatalf("encode finish: %v", err)
			}
			encoded = append(encoded, tail...)

			dec := mustNew(t, tt.enc, "UTF-8")
			decoded, err := dec.Convert(encoded)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			tail, err = dec.Finish()
			if err != nil {
				t.Fatalf("decode finish: %v", err)
			}
			decoded = append(decoded, tail...)

			if diff := cmp.Diff(tt.text, string(decoded)); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNew_Options(t *testing.T) {
	c := mustNew(t, "UTF-8", "US-ASCII", WithFlags(econv.UndefReplace), WithReplacement("*"))
	out, err := c.Convert([]byte("naïve"))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "na*ve" {
		t.Errorf("output = %q", out)
	}
	if c.Replacement() != "*" {
		t.Errorf("Replacement() = %q", c.Replacement())
	}

	if _, err := New("UTF-8", "US-ASCII", WithReplacement("\xFF")); err == nil {
		t.Error("invalid replacement accepted")
	}
	if _, err := New("UTF-8", "US-ASCII", WithMaxBufferSize(0)); err == nil {
		t.Error("zero max buffer size accepted")
	}
	if _, err := New("UTF-8", "no-such-encoding"); err == nil {
		t.Error("unknown encoding accepted")
	}
}

func TestConvpath(t *testing.T) {
	c := mustNew(t, "Shift_JIS", "EUC-KR", WithFlags(econv.XMLText))
	var names []string
	for _, s := range c.Convpath() {
		names = append(names, s.String())
	}
	want := []string{"Shift_JIS to UTF-8", "UTF-8 to EUC-KR", "xml_text_escape"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("convpath mismatch (-want +got):\n%s", diff)
	}

	path, err := SearchConvpath("ISO-2022-JP", "UTF-8", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 3 || path[0].Source != "ISO-2022-JP" {
		t.Errorf("SearchConvpath = %v", path)
	}
}

func TestRegistryQueries(t *testing.T) {
	dsts := AvailableDestinations("EUC-JP")
	for _, want := range []string{"UTF-8", "ISO-2022-JP", "Big5"} {
		if !slices.Contains(dsts, want) {
			t.Errorf("AvailableDestinations(EUC-JP) missing %s", want)
		}
	}

	var sources []string
	EachTranscoder(func(src string, dsts []string) {
		sources = append(sources, src)
		if len(dsts) == 0 {
			t.Errorf("%s has no destinations", src)
		}
	})
	if !slices.Contains(sources, "UTF-8") || !slices.IsSorted(sources) {
		t.Errorf("EachTranscoder sources = %v", sources)
	}
}

func TestReader(t *testing.T) {
	c := mustNew(t, "ISO-2022-JP", "UTF-8")
	src := "a\x1b$BF|K\\\x1b(Bb"
	r := NewReaderSize(iotest.OneByteReader(strings.NewReader(src)), c, 16)

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "a日本b" {
		t.Errorf("read %q", got)
	}
}

func TestReader_Error(t *testing.T) {
	c := mustNew(t, "UTF-8", "UTF-16BE")
	_, err := io.ReadAll(NewReader(strings.NewReader("ok\xFF"), c))
	if !errors.Is(err, &encerrors.Error{Phase: encerrors.PhaseConvert, Kind: encerrors.KindInvalidByteSequence}) {
		t.Errorf("error = %v", err)
	}
}

func TestWriter(t *testing.T) {
	c := mustNew(t, "UTF-8", "ISO-2022-JP")
	var out bytes.Buffer
	w := NewWriterSize(&out, c, 16)

	for _, b := range []byte("a日本b日") {
		if n, err := w.Write([]byte{b}); err != nil || n != 1 {
			t.Fatalf("Write = %d, %v", n, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	want := "a\x1b$BF|K\\\x1b(Bb\x1b$BF|\x1b(B"
	if out.String() != want {
		t.Errorf("wrote %q, want %q", out.String(), want)
	}
}

func TestWriter_Incomplete(t *testing.T) {
	c := mustNew(t, "UTF-8", "UTF-16LE")
	var out bytes.Buffer
	w := NewWriter(&out, c)
	if _, err := w.Write([]byte("x\xE6\x97")); err != nil {
		t.Fatal(err)
	}
	err := w.Close()
	if !errors.Is(err, &encerrors.Error{Phase: encerrors.PhaseConvert, Kind: encerrors.KindIncompleteInput}) {
		t.Errorf("Close error = %v", err)
	}
}
