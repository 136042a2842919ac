package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ironsheep/wcs-tools-mcp/internal/headers"
	"github.com/ironsheep/wcs-tools-mcp/internal/wcs"
)

var (
	errImage = errors.New("image")
	errWrite = errors.New("write")
)

// argError is a positional argument that is not a usable number.
type argError struct {
	Name  string
	Value string
}

func (e *argError) Error() string {
	return fmt.Sprintf("%s: %q is not a number", e.Name, e.Value)
}

// headerError is a header file that cannot be read or parsed.
type headerError struct {
	Path string
	Err  error
}

func (e *headerError) Error() string {
	return fmt.Sprintf("loading header %s: %v", e.Path, e.Err)
}

func (e *headerError) Unwrap() error {
	return e.Err
}

func parseFloatArg(name, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &argError{Name: name, Value: value}
	}
	return v, nil
}

// loadMapper reads a header file and builds its transform.
func loadMapper(path string) (*wcs.Mapper, error) {
	h, err := headers.LoadFile(path)
	if err != nil {
		return nil, &headerError{Path: path, Err: err}
	}
	return wcs.NewMapper(h)
}
