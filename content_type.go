package main

import "strings"

const octetStream = "application/octet-stream"

// contentTypes is matched in order against the end of the file name.
var contentTypes = []struct {
	suffix      string
	contentType string
}{
	{".html", "text/html; charset=UTF-8"},
	{".css", "text/css"},
	{".js", "application/javascript"},
	{".json", "application/json"},
	{".png", "image/png"},
	{".jpg", "image/jpeg"},
	{".jpeg", "image/jpeg"},
}

// contentType infers the response Content-Type from name's extension.
// Matching is case-sensitive.
func contentType(name string) string {
	for _, c := range contentTypes {
		if strings.HasSuffix(name, c.suffix) {
			return c.contentType
		}
	}
	return octetStream
}
