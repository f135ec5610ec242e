package custom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/muhammadmuzzammil1998/jsonc"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

// jsonKey is one object key seen while streaming a document.
type jsonKey struct {
	path    string
	name    string
	depth   int
	keyOff  int // offset just past the key token
	endOff  int // offset just past the value
	isGroup bool
}

// walkJSON streams a JSON document and reports object keys in source order.
// Keys inside arrays are not reported.
func walkJSON(data []byte) ([]jsonKey, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var keys []jsonKey
	if err := walkJSONValue(dec, "", 0, true, &keys); err != nil {
		if errors.Is(err, io.EOF) && len(bytes.TrimSpace(data)) == 0 {
			return nil, nil
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return keys, nil
}

func walkJSONValue(dec *json.Decoder, prefix string, depth int, record bool, keys *[]jsonKey) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '{':
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}
			name, ok := keyTok.(string)
			if !ok {
				return fmt.Errorf("object key is not a string")
			}

			idx := -1
			path := joinPath(prefix, name)
			if record {
				*keys = append(*keys, jsonKey{
					path:   path,
					name:   name,
					depth:  depth,
					keyOff: int(dec.InputOffset()),
				})
				idx = len(*keys) - 1
			}

			if err := walkJSONValue(dec, path, depth+1, record, keys); err != nil {
				return err
			}

			if idx >= 0 {
				(*keys)[idx].endOff = int(dec.InputOffset())
				(*keys)[idx].isGroup = len(*keys)-1 > idx
			}
		}
	case '[':
		for dec.More() {
			if err := walkJSONValue(dec, prefix, depth+1, false, keys); err != nil {
				return err
			}
		}
	}

	// Closing delimiter.
	_, err = dec.Token()
	return err
}

// JSON reports object keys with exact lines computed from byte offsets.
type JSON struct{}

// Extract implements analyzer.Analyzer.
func (j JSON) Extract(source []byte) (analyzer.RawMapping, error) {
	keys, err := j.keys(source)
	if err != nil {
		return nil, err
	}
	return keys.mapping(), nil
}

// ExtractNamed implements analyzer.NamedExtractor.
func (j JSON) ExtractNamed(source []byte, name string) (analyzer.RawElement, bool) {
	keys, err := j.keys(source)
	if err != nil {
		return analyzer.RawElement{}, false
	}
	return keys.named(name)
}

func (j JSON) keys(source []byte) (keyedSet, error) {
	found, err := walkJSON(source)
	if err != nil {
		return nil, jsonParseError("json", source, err)
	}

	offsets := newLineOffsets(source)
	keys := make(keyedSet, 0, len(found))
	for _, k := range found {
		line := offsets.lineAt(k.keyOff - 1)
		end := offsets.lineAt(k.endOff - 1)
		if end < line {
			end = line
		}
		keys = append(keys, keyed{
			path: k.path,
			el: analyzer.RawElement{
				Name:     k.name,
				Line:     line,
				EndLine:  end,
				Category: analyzer.Key,
			},
		})
	}
	return keys, nil
}

// JSONC handles JSON with comments and trailing commas. Comments are stripped
// before decoding, which shifts offsets, so each key is located in the
// original text instead.
type JSONC struct{}

// Extract implements analyzer.Analyzer.
func (j JSONC) Extract(source []byte) (analyzer.RawMapping, error) {
	keys, err := j.keys(source)
	if err != nil {
		return nil, err
	}
	return keys.mapping(), nil
}

// ExtractNamed implements analyzer.NamedExtractor.
func (j JSONC) ExtractNamed(source []byte, name string) (analyzer.RawElement, bool) {
	keys, err := j.keys(source)
	if err != nil {
		return analyzer.RawElement{}, false
	}
	return keys.named(name)
}

func (j JSONC) keys(source []byte) (keyedSet, error) {
	found, err := walkJSON(jsonc.ToJSON(source))
	if err != nil {
		return nil, jsonParseError("jsonc", nil, err)
	}

	var spans []jsoncSpan
	for _, sp := range jsoncSpans(source) {
		if !sp.inArray {
			spans = append(spans, sp)
		}
	}

	lines := splitLines(source)
	keys := make(keyedSet, len(found))
	for i, k := range found {
		var sp jsoncSpan
		if i < len(spans) {
			sp = spans[i]
		} else {
			sp.line = LocateOrDefault(lines, k.name, 1, len(lines))
			sp.end = sp.line
		}
		keys[i] = keyed{
			path: k.path,
			el: analyzer.RawElement{
				Name:     k.name,
				Line:     sp.line,
				EndLine:  max(sp.end, sp.line),
				Category: analyzer.Key,
			},
		}
	}
	return keys, nil
}

// jsoncSpan is the position of one object key in commented JSON.
type jsoncSpan struct {
	line    int
	end     int // line where the value ends, closing delimiter included
	inArray bool
}

// jsoncSpans lexes the original text, skipping strings and comments, and
// returns every object key in document order. A string is a key when the
// next significant byte is a colon.
func jsoncSpans(source []byte) []jsoncSpan {
	offsets := newLineOffsets(source)

	type frame struct {
		array bool
		key   int
	}
	var (
		spans   []jsoncSpan
		stack   []frame
		arrays  int
		pending = -1
	)

	for i := skipJSONCTrivia(source, 0); i < len(source); i = skipJSONCTrivia(source, i) {
		switch c := source[i]; c {
		case '"':
			end := jsonStringEnd(source, i)
			next := skipJSONCTrivia(source, end)
			inObject := len(stack) > 0 && !stack[len(stack)-1].array
			if inObject && next < len(source) && source[next] == ':' {
				line := offsets.lineAt(i)
				spans = append(spans, jsoncSpan{line: line, end: line, inArray: arrays > 0})
				pending = len(spans) - 1
				i = next + 1
				continue
			}
			if pending >= 0 {
				spans[pending].end = offsets.lineAt(end - 1)
				pending = -1
			}
			i = end
		case '{', '[':
			stack = append(stack, frame{array: c == '[', key: pending})
			if c == '[' {
				arrays++
			}
			pending = -1
			i++
		case '}', ']':
			if n := len(stack); n > 0 {
				top := stack[n-1]
				if top.key >= 0 {
					spans[top.key].end = offsets.lineAt(i)
				}
				if top.array {
					arrays--
				}
				stack = stack[:n-1]
			}
			i++
		default:
			if pending >= 0 && c != ',' && c != ':' {
				spans[pending].end = offsets.lineAt(i)
				pending = -1
			}
			i++
		}
	}
	return spans
}

// skipJSONCTrivia returns the index of the next byte at or after i that is
// not whitespace or part of a comment.
func skipJSONCTrivia(source []byte, i int) int {
	for i < len(source) {
		switch c := source[i]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '#' || bytes.HasPrefix(source[i:], []byte("//")):
			nl := bytes.IndexByte(source[i:], '\n')
			if nl < 0 {
				return len(source)
			}
			i += nl + 1
		case bytes.HasPrefix(source[i:], []byte("/*")):
			end := bytes.Index(source[i+2:], []byte("*/"))
			if end < 0 {
				return len(source)
			}
			i += end + 4
		default:
			return i
		}
	}
	return i
}

// jsonStringEnd returns the index just past the string starting at i.
func jsonStringEnd(source []byte, i int) int {
	for j := i + 1; j < len(source); j++ {
		switch source[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(source)
}

func jsonParseError(format string, source []byte, err error) error {
	perr := &analyzer.ParseError{Format: format, Message: err.Error()}
	var syntax *json.SyntaxError
	if source != nil && errors.As(err, &syntax) {
		perr.Line = newLineOffsets(source).lineAt(int(syntax.Offset))
	}
	return perr
}
