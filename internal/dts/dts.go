// Package dts extracts node names from a device-tree metadata
// descriptor. Presence in the descriptor is a flat membership test, so
// nesting depth is deliberately ignored.
package dts

import (
	"bufio"
	"bytes"
	"sort"
	"strings"
)

// NodeSet is the deduplicated set of node names found in a descriptor.
type NodeSet map[string]struct{}

// Has reports whether the set contains the given node name.
func (s NodeSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the node names in sorted order.
func (s NodeSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExtractNodes scans descriptor source and collects the name of every
// node-opening line. Reference overrides (lines starting with '&') are
// skipped; the name is the last whitespace-separated token before the
// opening brace, with any label colon stripped.
func ExtractNodes(source []byte) NodeSet {
	nodes := NodeSet{}

	scanner := bufio.NewScanner(bytes.NewReader(source))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "&") {
			continue
		}
		brace := strings.Index(line, "{")
		if brace < 0 {
			continue
		}

		fields := strings.Fields(line[:brace])
		if len(fields) == 0 {
			continue
		}
		name := strings.TrimSuffix(fields[len(fields)-1], ":")
		if name == "" {
			continue
		}
		nodes[name] = struct{}{}
	}

	return nodes
}
