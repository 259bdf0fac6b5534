// Package encconv converts byte streams between character encodings.
//
// Conversions are resumable: input may arrive in pieces, output space may run
// out mid stream, and malformed or unmappable characters stop the conversion
// with a result the caller can inspect, repair and resume from.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	encconv/             Root package with the Transcoding step interface
//	├── encoding/        Encoding identities, aliases and IANA name resolution
//	├── transcoder/      Transcoder definitions, registry and path search
//	├── econv/           Stateful multi-stage conversion engine
//	├── converter/       Buffer driver, putback and error info accessors
//	├── config/          Option parsing from arguments and ENCCONV_OPT
//	├── errors/          Structured error types
//	└── cmd/encconv/     Command line tool
//
// # Quick Start
//
// Convert a buffer, growing the destination as needed:
//
//	c, err := converter.New("UTF-8", "UTF-16BE")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	src := converter.NewBuffer(c.Source(), []byte("café"))
//	dst := converter.NewBuffer(nil, nil)
//	res, err := c.PrimitiveConvert(src, dst, 0, -1, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res, dst.Bytes()) // finished [0 99 0 97 0 102 0 233]
//
// # Results
//
// Invalid, undefined and incomplete input are ordinary results rather than
// errors. After one of them the converter exposes the offending bytes through
// LastError and Errinfo, and any bytes it read ahead through Putback.
//
// # Thread Safety
//
// The encoding table and the transcoder registry are built once and are safe
// for concurrent use. A Converter is NOT thread-safe and should be used by a
// single goroutine. Independent converters share no mutable state.
package encconv
