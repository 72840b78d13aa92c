package meshio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/meshforce/pkg/errors"
	"github.com/matzehuels/meshforce/pkg/mesh"
)

// Output formats.
const (
	FormatOBJ  = "obj"
	FormatSTL  = "stl"
	FormatJSON = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatOBJ, FormatSTL, FormatJSON}

// ValidateFormat checks that format is a supported output format.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, Formats...)
}

// FormatFromPath infers the output format from a file extension,
// defaulting to OBJ.
func FormatFromPath(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case FormatSTL:
		return FormatSTL
	case FormatJSON:
		return FormatJSON
	default:
		return FormatOBJ
	}
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	switch format {
	case FormatSTL:
		return "model/stl"
	case FormatJSON:
		return "application/json"
	default:
		return "model/obj"
	}
}

// Write encodes m to w in the given format. For JSON, d supplies the
// annotations; its vertex and face lists are replaced by m's.
func Write(w io.Writer, m *mesh.Mesh, format string, d Document) error {
	switch format {
	case FormatOBJ:
		return WriteOBJ(w, m)
	case FormatSTL:
		return WriteSTL(w, m)
	case FormatJSON:
		doc := NewDocument(m)
		doc.Params, doc.Stats = d.Params, d.Stats
		return WriteJSON(w, doc)
	default:
		return ValidateFormat(format)
	}
}

// ImportOBJ reads and validates the OBJ file at path.
func ImportOBJ(path string) (*mesh.Mesh, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ReadOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// DecodeOBJFile reads the OBJ file at path without topology checks.
func DecodeOBJFile(path string) (*mesh.Mesh, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := DecodeOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ReadJSONFile reads the JSON document at path.
func ReadJSONFile(path string) (Document, error) {
	f, err := open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()

	d, err := ReadJSON(f)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Export writes m to path in the given format.
func Export(path string, m *mesh.Mesh, format string, d Document) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, m, format, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "cannot open mesh file: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
