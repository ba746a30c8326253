/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sniff.go
Description: Encoding declaration sniffer for chared. Inspects transport and markup
metadata only: byte order marks, the HTTP Content-Type charset parameter, HTML meta
tags, and XML declarations. Performs no statistical guessing.
*/

package charset

import (
	"bytes"
	"mime"
	"strings"

	"golang.org/x/net/html"
)

// sniffLimit bounds how far into the document meta/XML declarations are
// searched, mirroring the prescan window browsers use.
const sniffLimit = 1024

// Sniff returns the encoding declared for the document, or the empty string
// when nothing is declared. contentType is the transport-level Content-Type
// header, if any; it takes precedence over in-document declarations, and a
// byte order mark takes precedence over both.
func Sniff(data []byte, contentType string) string {
	if name := sniffBOM(data); name != "" {
		return name
	}
	if name := sniffContentType(contentType); name != "" {
		return name
	}
	head := data
	if len(head) > sniffLimit {
		head = head[:sniffLimit]
	}
	if name := sniffXMLDeclaration(head); name != "" {
		return name
	}
	return sniffMeta(head)
}

func sniffBOM(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0x00, 0x00, 0xFE, 0xFF}):
		return "utf-32be"
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE, 0x00, 0x00}):
		return "utf-32le"
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return "utf-8"
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return "utf-16be"
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return "utf-16le"
	}
	return ""
}

func sniffContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	if cs, ok := params["charset"]; ok {
		return validateDeclared(cs)
	}
	return ""
}

func sniffXMLDeclaration(head []byte) string {
	if !bytes.HasPrefix(head, []byte("<?xml")) {
		return ""
	}
	end := bytes.Index(head, []byte("?>"))
	if end < 0 {
		return ""
	}
	decl := string(head[:end])
	idx := strings.Index(decl, "encoding=")
	if idx < 0 {
		return ""
	}
	rest := decl[idx+len("encoding="):]
	if len(rest) < 2 {
		return ""
	}
	quote := rest[0]
	if quote != '"' && quote != '\'' {
		return ""
	}
	closing := strings.IndexByte(rest[1:], quote)
	if closing < 0 {
		return ""
	}
	return validateDeclared(rest[1 : 1+closing])
}

// sniffMeta tokenizes the head of the document looking for
// <meta charset="..."> and <meta http-equiv="content-type" content="...">
func sniffMeta(head []byte) string {
	z := html.NewTokenizer(bytes.NewReader(head))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if !bytes.Equal(name, []byte("meta")) || !hasAttr {
				continue
			}
			var charsetAttr, httpEquiv, content string
			for {
				key, val, more := z.TagAttr()
				switch string(bytes.ToLower(key)) {
				case "charset":
					charsetAttr = string(val)
				case "http-equiv":
					httpEquiv = strings.ToLower(string(val))
				case "content":
					content = string(val)
				}
				if !more {
					break
				}
			}
			if charsetAttr != "" {
				if name := validateDeclared(charsetAttr); name != "" {
					return name
				}
			}
			if httpEquiv == "content-type" && content != "" {
				if name := sniffContentType(content); name != "" {
					return name
				}
			}
		}
	}
}

// validateDeclared resolves a declared name against the encoding index so the
// sniffer never reports a label the codecs cannot serve
func validateDeclared(label string) string {
	_, canonical, err := Lookup(label)
	if err != nil {
		return ""
	}
	return canonical
}
