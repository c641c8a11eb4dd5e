package stl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/philipparndt/stlsplit/pkg/geometry"
)

// ParseError reports a malformed ASCII STL line
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ASCII STL line %d: %s", e.Line, e.Msg)
}

// ParseSolids reads one or more "solid ... endsolid" blocks.
// Every block becomes its own Model carrying the block name.
// The reader is strict: facets must have exactly three vertices and
// every solid must be closed.
func ParseSolids(r io.Reader) ([]*Model, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var (
		solids   []*Model
		current  *Model
		normal   geometry.Vector3
		vertices []geometry.Vector3
		inFacet  bool
		line     int
	)

	fail := func(format string, args ...any) error {
		return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
	}

	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if current != nil {
				return nil, fail("solid %q opened before %q was closed", strings.Join(fields[1:], " "), current.Name)
			}
			current = NewModel(strings.Join(fields[1:], " "))

		case "facet":
			if current == nil || inFacet {
				return nil, fail("unexpected facet")
			}
			if len(fields) != 5 || fields[1] != "normal" {
				return nil, fail("expected 'facet normal nx ny nz'")
			}
			n, err := parseVector(fields[2:5])
			if err != nil {
				return nil, fail("bad normal: %v", err)
			}
			normal = n
			vertices = vertices[:0]
			inFacet = true

		case "outer":
			if !inFacet || len(fields) != 2 || fields[1] != "loop" {
				return nil, fail("unexpected outer loop")
			}

		case "vertex":
			if !inFacet {
				return nil, fail("vertex outside facet")
			}
			if len(fields) != 4 {
				return nil, fail("expected 'vertex x y z'")
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, fail("bad vertex: %v", err)
			}
			vertices = append(vertices, v)

		case "endloop":
			if !inFacet {
				return nil, fail("unexpected endloop")
			}

		case "endfacet":
			if !inFacet {
				return nil, fail("unexpected endfacet")
			}
			if len(vertices) != 3 {
				return nil, fail("facet has %d vertices, expected 3", len(vertices))
			}
			current.AddTriangle(geometry.NewTriangle(normal, vertices[0], vertices[1], vertices[2]))
			inFacet = false

		case "endsolid":
			if current == nil || inFacet {
				return nil, fail("unexpected endsolid")
			}
			solids = append(solids, current)
			current = nil

		default:
			return nil, fail("unknown keyword %q", fields[0])
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}
	if current != nil {
		return nil, &ParseError{Line: line, Msg: fmt.Sprintf("solid %q is not terminated", current.Name)}
	}
	if len(solids) == 0 {
		return nil, &ParseError{Line: line, Msg: "no solid found"}
	}

	return solids, nil
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, err
		}
		c[i] = v
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}
