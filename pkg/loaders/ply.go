package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ErrMalformedPLY is wrapped by every header or body parse failure
var ErrMalformedPLY = errors.New("malformed PLY")

// maxListLength bounds list properties other than face indices
const maxListLength = 1 << 16

// PLYProperty describes one property line of an element
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string
	DataType string
}

// PLYElement is a named group of rows declared in the header
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYHeader contains the parsed header
type PLYHeader struct {
	Format   string
	Version  string
	Elements []PLYElement
}

// PLYData holds vertex positions and triangulated faces
type PLYData struct {
	Vertices []core.Vec3
	Faces    []int // three indices per triangle
}

// Bounds returns the axis-aligned bounding box of the vertices
func (d *PLYData) Bounds() (core.Vec3, core.Vec3) {
	if len(d.Vertices) == 0 {
		return core.Vec3{}, core.Vec3{}
	}
	lo, hi := d.Vertices[0], d.Vertices[0]
	for _, v := range d.Vertices[1:] {
		lo = core.NewVec3(min(lo.X, v.X), min(lo.Y, v.Y), min(lo.Z, v.Z))
		hi = core.NewVec3(max(hi.X, v.X), max(hi.Y, v.Y), max(hi.Z, v.Z))
	}
	return lo, hi
}

// LoadPLY loads vertex positions and faces from a PLY file
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ReadPLY parses a PLY stream in ascii, binary_little_endian or
// binary_big_endian format. Polygons are fan-triangulated; elements other
// than vertex and face are skipped.
func ReadPLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReader(r)
	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, err
	}

	var body plyValueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		body = &asciiReader{scanner: scanner}
	case "binary_little_endian":
		body = &binaryReader{r: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		body = &binaryReader{r: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrMalformedPLY, header.Format)
	}

	vertexCount := 0
	for _, element := range header.Elements {
		if element.Name == "vertex" {
			vertexCount = element.Count
		}
	}

	data := &PLYData{}
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readVertices(body, element, data)
		case "face":
			err = readFaces(body, element, data, vertexCount)
		default:
			err = skipElement(body, element)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: element %s: %v", ErrMalformedPLY, element.Name, err)
		}
	}

	for _, idx := range data.Faces {
		if idx < 0 || idx >= len(data.Vertices) {
			return nil, fmt.Errorf("%w: face index %d out of range (%d vertices)", ErrMalformedPLY, idx, len(data.Vertices))
		}
	}
	return data, nil
}

// parsePLYHeader reads lines up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	line, err := readHeaderLine(reader)
	if err != nil || line != "ply" {
		return nil, fmt.Errorf("%w: missing magic number", ErrMalformedPLY)
	}

	for {
		line, err = readHeaderLine(reader)
		if err != nil {
			return nil, fmt.Errorf("%w: header ended before end_header", ErrMalformedPLY)
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) != 3 {
				return nil, fmt.Errorf("%w: bad format line %q", ErrMalformedPLY, line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "element":
			if len(parts) != 3 {
				return nil, fmt.Errorf("%w: bad element line %q", ErrMalformedPLY, line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: bad element count %q", ErrMalformedPLY, parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("%w: property before any element", ErrMalformedPLY)
			}
			prop, err := parsePLYProperty(parts)
			if err != nil {
				return nil, err
			}
			current := &header.Elements[len(header.Elements)-1]
			current.Properties = append(current.Properties, prop)
		case "comment", "obj_info":
		case "end_header":
			if header.Format == "" {
				return nil, fmt.Errorf("%w: no format line", ErrMalformedPLY)
			}
			return header, nil
		}
	}
}

func readHeaderLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// parsePLYProperty parses "property <type> <name>" or
// "property list <count type> <item type> <name>"
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) >= 5 && parts[1] == "list" {
		prop := PLYProperty{Name: parts[4], IsList: true, ListType: parts[2], DataType: parts[3]}
		if typeSize(prop.ListType) == 0 || typeSize(prop.DataType) == 0 {
			return PLYProperty{}, fmt.Errorf("%w: unknown list types %s %s", ErrMalformedPLY, prop.ListType, prop.DataType)
		}
		return prop, nil
	}
	if len(parts) != 3 {
		return PLYProperty{}, fmt.Errorf("%w: bad property line %q", ErrMalformedPLY, strings.Join(parts, " "))
	}
	if typeSize(parts[1]) == 0 {
		return PLYProperty{}, fmt.Errorf("%w: unknown property type %s", ErrMalformedPLY, parts[1])
	}
	return PLYProperty{Name: parts[2], Type: parts[1]}, nil
}

func readVertices(body plyValueReader, element PLYElement, data *PLYData) error {
	data.Vertices = make([]core.Vec3, 0, min(element.Count, maxListLength))
	for i := 0; i < element.Count; i++ {
		var v core.Vec3
		for _, prop := range element.Properties {
			if prop.IsList {
				if err := skipList(body, prop); err != nil {
					return err
				}
				continue
			}
			value, err := body.read(prop.Type)
			if err != nil {
				return err
			}
			switch prop.Name {
			case "x":
				v.X = value
			case "y":
				v.Y = value
			case "z":
				v.Z = value
			}
		}
		data.Vertices = append(data.Vertices, v)
	}
	return nil
}

func readFaces(body plyValueReader, element PLYElement, data *PLYData, vertexCount int) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Properties {
			if !prop.IsList {
				if _, err := body.read(prop.Type); err != nil {
					return err
				}
				continue
			}
			if prop.Name != "vertex_indices" && prop.Name != "vertex_index" {
				if err := skipList(body, prop); err != nil {
					return err
				}
				continue
			}

			count, err := readListCount(body, prop, vertexCount)
			if err != nil {
				return err
			}
			polygon := make([]int, count)
			for j := range polygon {
				idx, err := body.read(prop.DataType)
				if err != nil {
					return err
				}
				if idx != math.Trunc(idx) || idx < 0 || idx >= float64(vertexCount) {
					return fmt.Errorf("face index %v out of range (%d vertices)", idx, vertexCount)
				}
				polygon[j] = int(idx)
			}
			for j := 1; j+1 < len(polygon); j++ {
				data.Faces = append(data.Faces, polygon[0], polygon[j], polygon[j+1])
			}
		}
	}
	return nil
}

func skipElement(body plyValueReader, element PLYElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Properties {
			var err error
			if prop.IsList {
				err = skipList(body, prop)
			} else {
				_, err = body.read(prop.Type)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// readListCount reads the length prefix of a list property. It must be a
// whole number in [0, limit].
func readListCount(body plyValueReader, prop PLYProperty, limit int) (int, error) {
	count, err := body.read(prop.ListType)
	if err != nil {
		return 0, err
	}
	if count != math.Trunc(count) || count < 0 || count > float64(limit) {
		return 0, fmt.Errorf("list %s: bad length %v (limit %d)", prop.Name, count, limit)
	}
	return int(count), nil
}

func skipList(body plyValueReader, prop PLYProperty) error {
	count, err := readListCount(body, prop, maxListLength)
	if err != nil {
		return err
	}
	for j := 0; j < count; j++ {
		if _, err := body.read(prop.DataType); err != nil {
			return err
		}
	}
	return nil
}

// typeSize returns the size in bytes of a PLY scalar type, 0 if unknown
func typeSize(dataType string) int {
	switch dataType {
	case "double", "float64":
		return 8
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

type plyValueReader interface {
	read(dataType string) (float64, error)
}

type asciiReader struct {
	scanner *bufio.Scanner
}

func (a *asciiReader) read(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(a.scanner.Text(), 64)
}

type binaryReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryReader) read(dataType string) (float64, error) {
	size := typeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	raw := b.buf[:size]
	if _, err := io.ReadFull(b.r, raw); err != nil {
		return 0, err
	}

	switch dataType {
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(raw)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(raw))), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(raw))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(raw)), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(raw))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(raw)), nil
	case "char", "int8":
		return float64(int8(raw[0])), nil
	default:
		return float64(raw[0]), nil
	}
}
