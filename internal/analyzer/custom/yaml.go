package custom

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

// YAML reports every mapping key as a key element. Line numbers come straight
// from the YAML node tree; sequences are not descended.
type YAML struct{}

// Extract implements analyzer.Analyzer.
func (y YAML) Extract(source []byte) (analyzer.RawMapping, error) {
	keys, err := y.keys(source)
	if err != nil {
		return nil, err
	}
	return keys.mapping(), nil
}

// ExtractNamed implements analyzer.NamedExtractor. name is a dotted key path
// or a bare key.
func (y YAML) ExtractNamed(source []byte, name string) (analyzer.RawElement, bool) {
	keys, err := y.keys(source)
	if err != nil {
		return analyzer.RawElement{}, false
	}
	return keys.named(name)
}

func (y YAML) keys(source []byte) (keyedSet, error) {
	var keys keyedSet

	dec := yaml.NewDecoder(bytes.NewReader(source))
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &analyzer.ParseError{Format: "yaml", Line: yamlErrorLine(err), Message: err.Error()}
		}
		for _, content := range doc.Content {
			collectYAML(content, "", &keys)
		}
	}

	return keys, nil
}

func collectYAML(node *yaml.Node, prefix string, keys *keyedSet) {
	if node.Kind != yaml.MappingNode {
		return
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Value == "" {
			continue
		}
		path := joinPath(prefix, k.Value)
		end := lastYAMLLine(v)
		if end < k.Line {
			end = k.Line
		}

		*keys = append(*keys, keyed{
			path: path,
			el: analyzer.RawElement{
				Name:     k.Value,
				Line:     k.Line,
				EndLine:  end,
				Category: analyzer.Key,
			},
		})

		collectYAML(v, path, keys)
	}
}

// lastYAMLLine returns the last line a node occupies.
func lastYAMLLine(node *yaml.Node) int {
	last := node.Line
	if node.Kind == yaml.ScalarNode && node.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		// Block scalar content starts on the line after the indicator.
		last += strings.Count(strings.TrimRight(node.Value, "\n"), "\n") + 1
	}
	for _, child := range node.Content {
		if l := lastYAMLLine(child); l > last {
			last = l
		}
	}
	return last
}

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

func yamlErrorLine(err error) int {
	m := yamlLinePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
