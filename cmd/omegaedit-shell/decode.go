package main

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// cmdDecode prints [offset, offset+length) decoded from encoding name
// to UTF-8 for display. Unlike internal/profile's byte-width
// classification, this is best-effort transcoding: invalid sequences
// are replaced rather than reported, which is exactly what a terminal
// display wants.
func (sh *Shell) cmdDecode(args []string) {
	if len(args) < 3 {
		fmt.Println("usage: decode <encoding> <offset> <length>  (encoding: utf8, utf16le, utf16be)")
		return
	}
	enc, err := lookupEncoding(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	off, err1 := parseInt64(args[1])
	length, err2 := parseInt64(args[2])
	if err1 != nil || err2 != nil {
		fmt.Println("offset and length must be integers")
		return
	}

	raw, err := sh.session.Read(off, length)
	if err != nil {
		sh.reportErr(err)
		return
	}

	if enc == nil {
		fmt.Printf("%s\n", raw)
		return
	}
	reader := transform.NewReader(strings.NewReader(string(raw)), enc.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		fmt.Printf("decode error: %v\n", err)
		return
	}
	fmt.Printf("%s\n", decoded)
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "utf8", "utf-8":
		return nil, nil
	case "utf16le", "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case "utf16be", "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	default:
		return nil, fmt.Errorf("unknown encoding %q (want utf8, utf16le, utf16be)", name)
	}
}
